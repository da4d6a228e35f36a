package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds crawler configuration.
type Config struct {
	BaseURL            string
	OutputDir          string
	OutputFormat       string // csv, json, or dual
	Workers            int
	MaxPages           int // per category; 0 follows every page
	Delay              time.Duration
	RandomDelay        time.Duration
	Timeout            time.Duration
	UserAgent          string
	DownloadImages     bool
	ImageCacheSize     int
	SinkWorkers        int
	PipelineBufferSize int
	ProgressInterval   time.Duration
	MetricsAddr        string
	Verbose            bool
	RespectRobotsTxt   bool
}

// DefaultConfig returns defaults for the demo catalog.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://books.toscrape.com/index.html",
		OutputDir:          "scraped_data",
		OutputFormat:       "csv",
		Workers:            100,
		MaxPages:           0,
		Delay:              0,
		RandomDelay:        0,
		Timeout:            10 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		DownloadImages:     true,
		ImageCacheSize:     4096,
		SinkWorkers:        4,
		PipelineBufferSize: 64,
		ProgressInterval:   10 * time.Second,
		MetricsAddr:        "",
		Verbose:            false,
		RespectRobotsTxt:   false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages cannot be negative")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.DownloadImages && c.ImageCacheSize <= 0 {
		return fmt.Errorf("image cache size must be positive when images are downloaded")
	}
	if c.SinkWorkers <= 0 {
		return fmt.Errorf("sink workers must be positive")
	}
	if c.PipelineBufferSize < 0 {
		return fmt.Errorf("pipeline buffer size cannot be negative")
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval cannot be negative")
	}

	return nil
}

// SiteRoot returns the scheme and host of BaseURL with an empty path.
func (c *Config) SiteRoot() (*url.URL, error) {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/"}, nil
}
