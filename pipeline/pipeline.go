// Package pipeline writes completed category batches and stores their images.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
)

var (
	// ErrPipelineClosed is returned when Process is called after shutdown.
	ErrPipelineClosed = errors.New("pipeline: closed")
	// ErrPipelineCloseTimeout is returned when workers do not drain in time.
	ErrPipelineCloseTimeout = errors.New("pipeline: close timed out")
)

var drainTimeout = 5 * time.Minute

// BatchWriter persists one category batch and returns the files it wrote.
type BatchWriter interface {
	WriteBatch(batch *models.CategoryBatch) ([]string, error)
}

// ImageStorer stores the image of one record.
type ImageStorer interface {
	StoreImage(ctx context.Context, category string, rec *models.Record) (ImageOutcome, error)
}

// Submitter schedules a task on the run's worker pool.
type Submitter interface {
	Go(ctx context.Context, task func()) error
}

// Pipeline accepts category batches and writes them on its own workers,
// so sinking overlaps with the discovery of other categories.
type Pipeline struct {
	ctx     context.Context
	writer  BatchWriter
	images  ImageStorer
	pool    Submitter
	batchCh chan *models.CategoryBatch

	wg      sync.WaitGroup
	imageWg sync.WaitGroup

	metrics metrics

	mu     sync.Mutex // guards closed/err
	closed bool
	err    error

	closeOnce    sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewPipeline builds a pipeline writing through writer.
func NewPipeline(ctx context.Context, writer BatchWriter, cfg *config.Config) *Pipeline {
	if ctx == nil {
		ctx = context.Background()
	}
	buffer := cfg.PipelineBufferSize
	if buffer < 0 {
		buffer = 0
	}
	return &Pipeline{
		ctx:      ctx,
		writer:   writer,
		batchCh:  make(chan *models.CategoryBatch, buffer),
		metrics:  newMetrics(),
		shutdown: make(chan struct{}),
	}
}

// WithImages enables image storing; each image store runs on pool.
func (p *Pipeline) WithImages(store ImageStorer, pool Submitter) *Pipeline {
	p.images = store
	p.pool = pool
	return p
}

// Start launches worker goroutines.
func (p *Pipeline) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Process enqueues a completed batch. Empty batches are ignored.
func (p *Pipeline) Process(batch *models.CategoryBatch) error {
	if batch == nil || len(batch.Records) == 0 {
		return nil
	}

	closed, err := p.state()
	if err != nil {
		return err
	}
	if closed {
		return ErrPipelineClosed
	}
	return p.enqueue(batch)
}

// Close stops intake, waits for pending batches and image stores, and
// returns the first fatal error.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
	}
	p.mu.Unlock()

	p.signalShutdown()
	p.closeOnce.Do(func() {
		close(p.batchCh)
	})

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.imageWg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(drainTimeout):
		return fmt.Errorf("%w after %s", ErrPipelineCloseTimeout, drainTimeout)
	}
	return p.Err()
}

// Err returns the first fatal error encountered during processing.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

// StartMetricsReporting emits periodic progress logs.
func (p *Pipeline) StartMetricsReporting(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m := p.GetMetrics()
				slog.Info("pipeline progress",
					slog.Int64("batches", m["written_batches"].(int64)),
					slog.Int64("records", m["written_records"].(int64)),
					slog.Any("images", m["images"]),
				)
			case <-p.shutdown:
				return
			}
		}
	}()
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	for batch := range p.batchCh {
		if err := p.handle(batch); err != nil {
			p.setErr(err)
			return
		}
	}
}

// handle returns only fatal errors; rejected batches are counted and logged.
func (p *Pipeline) handle(batch *models.CategoryBatch) error {
	logger := slog.With(slog.String("category", batch.Category.Name))

	if err := models.ValidateBatch(batch); err != nil {
		p.reject(logger, batch, err)
		return nil
	}

	p.storeImages(batch)

	paths, err := p.writer.WriteBatch(batch)
	if err != nil {
		if errors.Is(err, models.ErrInconsistentKeys) {
			p.reject(logger, batch, err)
			return nil
		}
		return fmt.Errorf("write batch %s: %w", batch.Category.Name, err)
	}

	p.metrics.addWritten(len(batch.Records), paths)
	logger.Info("batch written",
		slog.Int("records", len(batch.Records)),
		slog.Any("files", paths),
	)
	return nil
}

func (p *Pipeline) reject(logger *slog.Logger, batch *models.CategoryBatch, err error) {
	kind := "invalid_batch"
	if errors.Is(err, models.ErrInconsistentKeys) {
		kind = "inconsistent_keys"
	}
	p.metrics.addValidation(kind)
	logger.Error("batch rejected", slog.Int("records", len(batch.Records)), slog.Any("error", err))
}

func (p *Pipeline) storeImages(batch *models.CategoryBatch) {
	if p.images == nil {
		return
	}
	for _, rec := range batch.Records {
		p.imageWg.Add(1)
		task := func() {
			defer p.imageWg.Done()
			outcome, err := p.images.StoreImage(p.ctx, batch.Category.Name, rec)
			if err != nil {
				p.metrics.addImage("failed")
				slog.Error("image store failed",
					slog.String("category", batch.Category.Name),
					slog.String("url", rec.Text(models.FieldImageURL)),
					slog.Any("error", err),
				)
				return
			}
			p.metrics.addImage(string(outcome))
		}
		if p.pool == nil {
			task()
			continue
		}
		if err := p.pool.Go(p.ctx, task); err != nil {
			p.imageWg.Done()
			p.metrics.addImage("failed")
			slog.Error("image store not scheduled",
				slog.String("category", batch.Category.Name),
				slog.Any("error", err),
			)
		}
	}
}

func (p *Pipeline) enqueue(batch *models.CategoryBatch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPipelineClosed
		}
	}()

	select {
	case <-p.shutdown:
		return ErrPipelineClosed
	case p.batchCh <- batch:
		return nil
	}
}

func (p *Pipeline) setErr(err error) {
	if err == nil {
		return
	}

	p.mu.Lock()
	if p.err != nil {
		p.mu.Unlock()
		return
	}
	p.err = err
	p.closed = true
	p.mu.Unlock()

	slog.Error("pipeline stopped", slog.Any("error", err))
	p.signalShutdown()
	p.closeOnce.Do(func() {
		close(p.batchCh)
	})
}

func (p *Pipeline) state() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed, p.err
}

func (p *Pipeline) signalShutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdown)
	})
}

type metrics struct {
	mu         sync.Mutex
	batches    int64
	records    int64
	files      []string
	validation map[string]int
	images     map[string]int
}

func newMetrics() metrics {
	return metrics{
		validation: make(map[string]int),
		images:     make(map[string]int),
	}
}

func (m *metrics) addWritten(records int, paths []string) {
	m.mu.Lock()
	m.batches++
	m.records += int64(records)
	m.files = append(m.files, paths...)
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) addImage(outcome string) {
	m.mu.Lock()
	m.images[outcome]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}
	copyImages := make(map[string]int, len(m.images))
	for k, v := range m.images {
		copyImages[k] = v
	}
	files := make([]string, len(m.files))
	copy(files, m.files)

	return map[string]interface{}{
		"written_batches":   m.batches,
		"written_records":   m.records,
		"files":             files,
		"validation_errors": copyValidation,
		"images":            copyImages,
	}
}
