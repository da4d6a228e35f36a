// Package scraper discovers catalog URLs, fetches pages and builds records
// under the run's bounded worker pool.
package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
	"github.com/aluiziolira/go-scrape-catalog/pipeline"
	"github.com/aluiziolira/go-scrape-catalog/workpool"
)

// PageFetcher turns a URL into a parsed document.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*parser.Document, error)
}

// BatchSink receives completed category batches.
type BatchSink interface {
	Process(batch *models.CategoryBatch) error
}

var _ BatchSink = (*pipeline.Pipeline)(nil)

// Crawler runs one pass over the catalog: categories, then items per category.
type Crawler struct {
	cfg      *config.Config
	fetcher  PageFetcher
	pool     *workpool.Pool
	metrics  *Metrics
	siteRoot *url.URL
	now      func() time.Time

	processed int64
	skipped   int64
	pageCount int64

	mu               sync.Mutex
	failedURLs       []string
	errorsByType     map[string]int
	categoriesFailed int
	categoriesEmpty  int
}

type itemResult struct {
	index  int
	record *models.Record
	err    error
}

// NewCrawler wires a crawler to its fetcher and the shared pool.
func NewCrawler(cfg *config.Config, fetcher PageFetcher, pool *workpool.Pool, metrics *Metrics) (*Crawler, error) {
	siteRoot, err := cfg.SiteRoot()
	if err != nil {
		return nil, err
	}
	return &Crawler{
		cfg:          cfg,
		fetcher:      fetcher,
		pool:         pool,
		metrics:      metrics,
		siteRoot:     siteRoot,
		now:          time.Now,
		errorsByType: make(map[string]int),
	}, nil
}

// Run discovers every category and hands each completed batch to sink.
// It fails only when the root page cannot be read or lists no categories.
func (c *Crawler) Run(ctx context.Context, sink BatchSink) (*models.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := c.now()
	stamp := models.RunStamp(start)

	categories, err := c.DiscoverCategories(ctx, c.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("categories discovered",
		slog.Int("count", len(categories)),
		slog.String("run", stamp),
	)

	stopProgress := c.startProgressReporting(c.cfg.ProgressInterval)
	defer stopProgress()

	var wg sync.WaitGroup
	for _, category := range categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.crawlCategory(ctx, category, stamp, sink)
		}()
	}
	wg.Wait()

	result := &models.RunResult{
		RunStamp:       stamp,
		StartTime:      start,
		EndTime:        c.now(),
		Categories:     len(categories),
		ItemsProcessed: int(atomic.LoadInt64(&c.processed)),
		ItemsSkipped:   int(atomic.LoadInt64(&c.skipped)),
		PageCount:      int(atomic.LoadInt64(&c.pageCount)),
	}
	if counter, ok := c.fetcher.(interface{ RequestCount() int }); ok {
		result.RequestCount = counter.RequestCount()
	}
	c.mu.Lock()
	result.CategoriesFailed = c.categoriesFailed
	result.CategoriesEmpty = c.categoriesEmpty
	result.FailedURLs = append([]string(nil), c.failedURLs...)
	result.ErrorsByType = make(map[string]int, len(c.errorsByType))
	for k, v := range c.errorsByType {
		result.ErrorsByType[k] = v
	}
	c.mu.Unlock()

	return result, nil
}

// Progress returns how many item URLs succeeded and how many were skipped.
func (c *Crawler) Progress() (processed, skipped int64) {
	return atomic.LoadInt64(&c.processed), atomic.LoadInt64(&c.skipped)
}

func (c *Crawler) crawlCategory(ctx context.Context, category models.CategoryRef, stamp string, sink BatchSink) {
	logger := slog.With(slog.String("category", category.Name))

	urls, err := c.DiscoverItemURLs(ctx, category)
	if err != nil {
		c.recordFailure(category.URL, err)
		c.mu.Lock()
		c.categoriesFailed++
		c.mu.Unlock()
		c.metrics.IncCategory("failed")
		logger.Error("category discovery failed",
			slog.String("url", category.URL),
			slog.String("error_type", errorTypeLabel(err)),
			slog.Any("error", err),
		)
		return
	}
	if len(urls) == 0 {
		c.mu.Lock()
		c.categoriesEmpty++
		c.mu.Unlock()
		c.metrics.IncCategory("empty")
		logger.Info("category has no items", slog.String("url", category.URL))
		return
	}
	logger.Debug("item urls discovered", slog.Int("count", len(urls)))

	records := c.buildItems(ctx, urls)
	if len(records) == 0 {
		c.mu.Lock()
		c.categoriesEmpty++
		c.mu.Unlock()
		c.metrics.IncCategory("empty")
		logger.Warn("no item in category could be built", slog.Int("items", len(urls)))
		return
	}

	batch := &models.CategoryBatch{
		Category: category,
		RunStamp: stamp,
		Records:  records,
	}
	if err := sink.Process(batch); err != nil {
		c.mu.Lock()
		c.categoriesFailed++
		c.mu.Unlock()
		c.metrics.IncCategory("failed")
		logger.Error("pipeline process error", slog.Any("error", err))
		return
	}
	c.metrics.IncCategory("processed")
}

// buildItems fetches and builds every item on the pool and returns the
// records that succeeded, in discovery order.
func (c *Crawler) buildItems(ctx context.Context, urls []string) []*models.Record {
	results := make(chan itemResult, len(urls))
	for i, itemURL := range urls {
		err := c.pool.Go(ctx, func() {
			rec, err := c.BuildItem(ctx, itemURL)
			results <- itemResult{index: i, record: rec, err: err}
		})
		if err != nil {
			results <- itemResult{index: i, err: ErrItemBuild{URL: itemURL, Err: err}}
		}
	}

	ordered := make([]*models.Record, len(urls))
	for range urls {
		res := <-results
		if res.err != nil {
			c.itemFailed(urls[res.index], res.err)
			continue
		}
		ordered[res.index] = res.record
		c.itemDone()
	}

	records := make([]*models.Record, 0, len(urls))
	for _, rec := range ordered {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

// BuildItem fetches one item page and builds its record.
func (c *Crawler) BuildItem(ctx context.Context, itemURL string) (*models.Record, error) {
	doc, err := c.fetcher.Fetch(ctx, itemURL)
	if err != nil {
		return nil, ErrItemBuild{URL: itemURL, Err: err}
	}
	return parser.BuildRecord(itemURL, doc, c.siteRoot), nil
}

func (c *Crawler) itemDone() {
	atomic.AddInt64(&c.processed, 1)
	c.metrics.IncItem("processed")
}

func (c *Crawler) itemFailed(itemURL string, err error) {
	atomic.AddInt64(&c.skipped, 1)
	c.metrics.IncItem("skipped")
	c.recordFailure(itemURL, err)
	slog.Error("item skipped",
		slog.String("url", itemURL),
		slog.String("error_type", errorTypeLabel(err)),
		slog.Any("error", err),
	)
}

func (c *Crawler) recordFailure(rawURL string, err error) {
	c.mu.Lock()
	c.failedURLs = append(c.failedURLs, rawURL)
	c.errorsByType[errorTypeLabel(err)]++
	c.mu.Unlock()
}

func (c *Crawler) startProgressReporting(interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				processed, skipped := c.Progress()
				slog.Info("crawl progress",
					slog.Int64("processed", processed),
					slog.Int64("skipped", skipped),
					slog.Int64("pages", atomic.LoadInt64(&c.pageCount)),
				)
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
