package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

// DiscoverCategories fetches the root page and lists its categories.
func (c *Crawler) DiscoverCategories(ctx context.Context, rootURL string) ([]models.CategoryRef, error) {
	var (
		doc      *parser.Document
		fetchErr error
	)
	if err := c.pool.Do(ctx, func() {
		doc, fetchErr = c.fetcher.Fetch(ctx, rootURL)
	}); err != nil {
		return nil, fmt.Errorf("discover categories: %w", err)
	}
	if fetchErr != nil {
		c.recordFailure(rootURL, fetchErr)
		return nil, fmt.Errorf("fetch root page: %w", fetchErr)
	}

	categories := parser.CategoryLinks(doc)
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w at %s", ErrNoCategories, rootURL)
	}
	return categories, nil
}

// DiscoverItemURLs follows the category's pagination chain and returns every
// item URL in page order. The whole chain is one unit of work on the pool;
// pages are fetched strictly one after another.
func (c *Crawler) DiscoverItemURLs(ctx context.Context, category models.CategoryRef) ([]string, error) {
	var (
		urls    []string
		loopErr error
	)
	if err := c.pool.Do(ctx, func() {
		urls, loopErr = c.followPagination(ctx, category.URL)
	}); err != nil {
		return nil, fmt.Errorf("discover items of %s: %w", category.Name, err)
	}
	if loopErr != nil {
		return nil, fmt.Errorf("discover items of %s: %w", category.Name, loopErr)
	}
	return urls, nil
}

func (c *Crawler) followPagination(ctx context.Context, firstURL string) ([]string, error) {
	urls := []string{}
	visited := make(map[string]struct{})

	next := firstURL
	for pages := 0; next != ""; pages++ {
		if c.cfg.MaxPages > 0 && pages >= c.cfg.MaxPages {
			slog.Debug("page cap reached", slog.String("url", firstURL), slog.Int("pages", pages))
			break
		}
		if _, seen := visited[next]; seen {
			return nil, fmt.Errorf("pagination revisits %s", next)
		}
		visited[next] = struct{}{}

		doc, err := c.fetcher.Fetch(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("fetch listing page: %w", err)
		}
		atomic.AddInt64(&c.pageCount, 1)
		c.metrics.IncPage()

		urls = append(urls, parser.ItemLinks(doc)...)
		next = parser.NextPageLink(doc)
	}
	return urls, nil
}
