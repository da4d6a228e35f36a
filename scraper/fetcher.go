package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

const (
	ctxKeyResult = "result"
	ctxKeyStart  = "start"
	ctxKeyKind   = "kind"

	kindPage  = "page"
	kindImage = "image"
)

type fetchResult struct {
	status int
	body   []byte
	url    *url.URL
}

// Fetcher issues every request of a run through one shared colly collector,
// so all workers reuse the same transport and connection pool.
type Fetcher struct {
	collector *colly.Collector
	metrics   *Metrics

	requestCount int64
}

// NewFetcher builds a synchronous collector restricted to the base URL's host.
func NewFetcher(cfg *config.Config, metrics *Metrics) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.AllowURLRevisit = true
	collector.ParseHTTPErrorResponse = true
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt

	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.Workers,
		MaxIdleConnsPerHost: cfg.Workers,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Workers,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	f := &Fetcher{
		collector: collector,
		metrics:   metrics,
	}
	collector.OnRequest(f.onRequest)
	collector.OnResponse(f.onResponse)
	return f, nil
}

// Fetch downloads rawURL and parses it as UTF-8 HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*parser.Document, error) {
	res, err := f.get(ctx, rawURL, kindPage)
	if err != nil {
		return nil, err
	}
	doc, err := parser.NewDocument(res.url, bytes.NewReader(res.body))
	if err != nil {
		f.metrics.IncError("parse")
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// FetchBytes downloads rawURL and returns the raw body.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := f.get(ctx, rawURL, kindImage)
	if err != nil {
		return nil, err
	}
	return res.body, nil
}

// RequestCount returns the number of requests issued so far.
func (f *Fetcher) RequestCount() int {
	return int(atomic.LoadInt64(&f.requestCount))
}

func (f *Fetcher) get(ctx context.Context, rawURL, kind string) (*fetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &fetchResult{}
	reqCtx := colly.NewContext()
	reqCtx.Put(ctxKeyResult, res)
	reqCtx.Put(ctxKeyKind, kind)

	if err := f.collector.Request(http.MethodGet, rawURL, nil, reqCtx, nil); err != nil {
		classified := classifyTransportError(rawURL, err)
		f.metrics.IncError(errorTypeLabel(classified))
		return nil, classified
	}
	if res.status == 0 {
		classified := classifyTransportError(rawURL, fmt.Errorf("no response received"))
		f.metrics.IncError(errorTypeLabel(classified))
		return nil, classified
	}
	if res.status < http.StatusOK || res.status >= http.StatusMultipleChoices {
		statusErr := ErrHTTPStatus{URL: rawURL, StatusCode: res.status}
		f.metrics.IncError(errorTypeLabel(statusErr))
		return nil, statusErr
	}
	return res, nil
}

func (f *Fetcher) onRequest(r *colly.Request) {
	r.Ctx.Put(ctxKeyStart, time.Now())
	kind := r.Ctx.Get(ctxKeyKind)
	if kind == kindPage {
		// The catalog serves UTF-8 without declaring it.
		r.ResponseCharacterEncoding = "utf-8"
	}
	atomic.AddInt64(&f.requestCount, 1)
	f.metrics.IncRequest(kind)
}

func (f *Fetcher) onResponse(r *colly.Response) {
	if start, ok := r.Ctx.GetAny(ctxKeyStart).(time.Time); ok {
		f.metrics.ObserveDuration(time.Since(start))
	}
	res, ok := r.Ctx.GetAny(ctxKeyResult).(*fetchResult)
	if !ok {
		return
	}
	res.status = r.StatusCode
	res.body = r.Body
	res.url = r.Request.URL
}
