package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/clock/system"
	"github.com/webflowx/exporter/internal/progress"
)

type fakeFetcher struct {
	pages map[string]FetchResult
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (FetchResult, error) {
	res, ok := f.pages[url]
	if !ok {
		return FetchResult{StatusCode: http.StatusNotFound}, nil
	}
	return res, nil
}

func htmlResult(url, body string) FetchResult {
	return FetchResult{URL: url, StatusCode: http.StatusOK, ContentType: "text/html; charset=utf-8", Body: []byte(body)}
}

func TestScannerWalksInternalLinks(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]FetchResult{
		"https://example.webflow.io": htmlResult("https://example.webflow.io", `<html><head>
			<link rel="stylesheet" href="https://assets.website-files.com/site/style.css">
			</head><body>
			<a href="/about">About</a>
			<a href="https://elsewhere.example.com/page">External</a>
			<img src="https://assets.website-files.com/site/hero.png">
			</body></html>`),
		"https://example.webflow.io/about": htmlResult("https://example.webflow.io/about", `<html><body>
			<a href="/">Home</a>
			<script src="https://assets.website-files.com/site/app.js"></script>
			</body></html>`),
	}}

	scanner := NewScanner(fetcher, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	manifest, err := scanner.Scan(context.Background(), "https://example.webflow.io/", false)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"https://example.webflow.io", "https://example.webflow.io/about"}, manifest.HTML)
	require.Equal(t, []string{"https://assets.website-files.com/site/style.css"}, manifest.CSS)
	require.Equal(t, []string{"https://assets.website-files.com/site/app.js"}, manifest.JS)
	require.Equal(t, []string{"https://assets.website-files.com/site/hero.png"}, manifest.Images)
	require.Empty(t, manifest.Media)
}

func TestScannerSinglePage(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]FetchResult{
		"https://example.webflow.io": htmlResult("https://example.webflow.io", `<html><body>
			<a href="/about">About</a>
			<img src="https://assets.website-files.com/site/hero.png">
			</body></html>`),
	}}

	scanner := NewScanner(fetcher, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	manifest, err := scanner.Scan(context.Background(), "https://example.webflow.io", true)
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.webflow.io"}, manifest.HTML)
	require.Equal(t, []string{"https://assets.website-files.com/site/hero.png"}, manifest.Images)
}

func TestScannerSkipsFailedPages(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]FetchResult{
		"https://example.webflow.io": htmlResult("https://example.webflow.io", `<html><body>
			<a href="/missing">Missing</a>
			</body></html>`),
	}}

	scanner := NewScanner(fetcher, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	manifest, err := scanner.Scan(context.Background(), "https://example.webflow.io", false)
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.webflow.io"}, manifest.HTML)
}

func TestScannerCollectsSrcsetAndSources(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]FetchResult{
		"https://example.webflow.io": htmlResult("https://example.webflow.io", `<html><body>
			<img srcset="https://assets.website-files.com/site/a-500.png 500w, https://assets.website-files.com/site/a-800.png 800w">
			<picture><source srcset="https://assets.website-files.com/site/b.webp"></picture>
			<video src="https://assets.website-files.com/site/clip.mp4"></video>
			<video><source src="https://assets.website-files.com/site/clip.webm"></video>
			</body></html>`),
	}}

	scanner := NewScanner(fetcher, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	manifest, err := scanner.Scan(context.Background(), "https://example.webflow.io", true)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://assets.website-files.com/site/a-500.png",
		"https://assets.website-files.com/site/a-800.png",
		"https://assets.website-files.com/site/b.webp",
	}, manifest.Images)
	require.Equal(t, []string{
		"https://assets.website-files.com/site/clip.mp4",
		"https://assets.website-files.com/site/clip.webm",
	}, manifest.Media)
}

func TestScannerMetaContent(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]FetchResult{
		"https://example.webflow.io": htmlResult("https://example.webflow.io", `<html><head>
			<meta property="og:image" content="//assets.website-files.com/site/og.png">
			<meta name="description" content="Just words, not a URL">
			</head><body></body></html>`),
	}}

	scanner := NewScanner(fetcher, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	manifest, err := scanner.Scan(context.Background(), "https://example.webflow.io", true)
	require.NoError(t, err)
	require.Equal(t, []string{"https://assets.website-files.com/site/og.png"}, manifest.Images)
}

func TestScannerRejectsBadSeed(t *testing.T) {
	t.Parallel()

	scanner := NewScanner(&fakeFetcher{}, system.New(), zap.NewNop(), progress.EmitterFunc(func(progress.Event) {}))
	_, err := scanner.Scan(context.Background(), "not a url", false)
	require.Error(t, err)
}

func TestCollyFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	fetcher := NewCollyFetcher(FetchConfig{UserAgent: "exporter-test", Timeout: 2 * time.Second})

	res, err := fetcher.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.ContentType, "text/html")
	require.Contains(t, string(res.Body), "hello")

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}
