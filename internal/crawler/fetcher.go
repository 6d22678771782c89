// Package crawler walks a site from a seed URL and builds the asset manifest.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// FetchResult carries everything the scanner needs from one page request.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher fetches a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// FetchConfig controls collector behavior.
type FetchConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher implements Fetcher using a Colly collector per request.
type CollyFetcher struct {
	base    *colly.Collector
	timeout time.Duration
}

// NewCollyFetcher builds a fetcher. Robots handling is intentionally off; the
// exporter only visits the site it was pointed at.
func NewCollyFetcher(cfg FetchConfig) *CollyFetcher {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CollyFetcher{base: c, timeout: timeout}
}

// Fetch executes a single GET. A non-2xx response surfaces as an error with
// the status code still populated in the result.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return FetchResult{}, fmt.Errorf("fetch %s: %w", url, err)
	}

	var (
		result   FetchResult
		fetchErr error
	)
	collector := f.base.Clone()
	collector.SetRequestTimeout(f.timeout)
	collector.OnResponse(func(r *colly.Response) {
		result = FetchResult{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := collector.Visit(url); err != nil {
		return result, fmt.Errorf("visit %s: %w", url, err)
	}
	collector.Wait()
	if fetchErr != nil {
		return result, fmt.Errorf("fetch %s: %w", url, fetchErr)
	}
	return result, nil
}
