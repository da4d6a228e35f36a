package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/pipeline"
	"github.com/aluiziolira/go-scrape-catalog/scraper"
	"github.com/aluiziolira/go-scrape-catalog/workpool"
)

func main() {
	defaultCfg := config.DefaultConfig()
	if err := applyEnv(defaultCfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Catalog root page to crawl")
	outputDir := flag.String("output", defaultCfg.OutputDir, "Output directory")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: csv, json, or dual")
	workers := flag.Int("workers", defaultCfg.Workers, "Worker pool capacity")
	maxPages := flag.Int("pages", defaultCfg.MaxPages, "Maximum listing pages per category (0 follows all)")
	delayMs := flag.Int("delay", 0, "Delay between requests (milliseconds)")
	randomDelayMs := flag.Int("random-delay", 0, "Random jitter added to delay (milliseconds)")
	timeout := flag.Duration("timeout", defaultCfg.Timeout, "Per-request timeout")
	images := flag.Bool("images", defaultCfg.DownloadImages, "Download item images")
	respectRobots := flag.Bool("respect-robots", false, "Respect robots.txt directives")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", defaultCfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.OutputDir = *outputDir
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.Workers = *workers
	cfg.MaxPages = *maxPages
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	cfg.Timeout = *timeout
	cfg.DownloadImages = *images
	cfg.RespectRobotsTxt = *respectRobots
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting crawl",
		slog.String("base_url", cfg.BaseURL),
		slog.String("output", cfg.OutputDir),
		slog.Int("workers", cfg.Workers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	metrics := scraper.NewMetrics()
	fetcher, err := scraper.NewFetcher(cfg, metrics)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}
	pool := workpool.New(cfg.Workers)

	crawler, err := scraper.NewCrawler(cfg, fetcher, pool, metrics)
	if err != nil {
		slog.Error("initialising crawler", slog.Any("error", err))
		os.Exit(1)
	}

	writer, err := pipeline.NewWriter(cfg.OutputFormat, cfg.OutputDir)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := startMetricsServer(cfg.MetricsAddr, metrics)

	p := pipeline.NewPipeline(ctx, writer, cfg)
	if cfg.DownloadImages {
		store, err := pipeline.NewImageStore(cfg.OutputDir, fetcher, cfg.ImageCacheSize)
		if err != nil {
			slog.Error("creating image store", slog.Any("error", err))
			os.Exit(1)
		}
		p.WithImages(store, pool)
	}
	p.Start(cfg.SinkWorkers)
	if cfg.Verbose {
		p.StartMetricsReporting(cfg.ProgressInterval)
	}

	result, err := crawler.Run(ctx, p)
	if err != nil {
		if closeErr := p.Close(); closeErr != nil {
			slog.Error("pipeline shutdown failed", slog.Any("error", closeErr))
		}
		if errors.Is(err, scraper.ErrNoCategories) {
			slog.Error("root page lists no categories", slog.String("url", cfg.BaseURL), slog.Any("error", err))
		} else {
			slog.Error("crawl failed", slog.Any("error", err))
		}
		os.Exit(1)
	}

	closeErr := p.Close()
	pool.Wait()
	shutdownMetricsServer(metricsServer)

	printSummary(result, p.GetMetrics())
	if closeErr != nil {
		slog.Error("pipeline shutdown failed", slog.Any("error", closeErr))
		os.Exit(1)
	}
}

// applyEnv overrides defaults from SCRAPER_* variables.
func applyEnv(cfg *config.Config) error {
	if value, ok := config.EnvString("SCRAPER_BASE_URL"); ok {
		cfg.BaseURL = value
	}
	if value, ok := config.EnvString("SCRAPER_OUTPUT_DIR"); ok {
		cfg.OutputDir = value
	}
	if value, ok := config.EnvString("SCRAPER_FORMAT"); ok {
		cfg.OutputFormat = value
	}
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	if value, ok, err := config.EnvInt("SCRAPER_WORKERS"); err != nil {
		return fmt.Errorf("invalid SCRAPER_WORKERS: %w", err)
	} else if ok {
		cfg.Workers = value
	}
	if value, ok, err := config.EnvInt("SCRAPER_PAGES"); err != nil {
		return fmt.Errorf("invalid SCRAPER_PAGES: %w", err)
	} else if ok {
		cfg.MaxPages = value
	}
	if value, ok, err := config.EnvBool("SCRAPER_IMAGES"); err != nil {
		return fmt.Errorf("invalid SCRAPER_IMAGES: %w", err)
	} else if ok {
		cfg.DownloadImages = value
	}
	return nil
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func shutdownMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}

func printSummary(result *models.RunResult, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")

	duration := result.EndTime.Sub(result.StartTime)
	itemsPerSec := 0.0
	if duration.Seconds() > 0 {
		itemsPerSec = float64(result.ItemsProcessed) / duration.Seconds()
	}

	fmt.Printf("  Run:           %s\n", result.RunStamp)
	fmt.Printf("  Categories:    %d (failed %d, empty %d)\n", result.Categories, result.CategoriesFailed, result.CategoriesEmpty)
	fmt.Printf("  Listing pages: %d\n", result.PageCount)
	fmt.Printf("  Requests:      %d\n", result.RequestCount)
	fmt.Printf("  Items:         %d processed, %d skipped\n", result.ItemsProcessed, result.ItemsSkipped)
	fmt.Printf("  Failed URLs:   %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	if images, ok := metrics["images"].(map[string]int); ok && len(images) > 0 {
		fmt.Printf("  Images:        %v\n", images)
	}
	if written, ok := metrics["written_records"].(int64); ok {
		fmt.Printf("  Rows written:  %d\n", written)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Items/sec:     %.2f\n", itemsPerSec)
	if files, ok := metrics["files"].([]string); ok {
		fmt.Printf("  Files:         %d\n", len(files))
		for _, f := range files {
			fmt.Printf("    %s\n", f)
		}
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
