package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/assets"
	"github.com/webflowx/exporter/internal/progress"
)

// Clock supplies event timestamps.
type Clock interface {
	Now() time.Time
}

// Scanner walks pages reachable from a seed URL and collects platform assets.
type Scanner struct {
	fetcher Fetcher
	clock   Clock
	logger  *zap.Logger
	emitter progress.Emitter
}

func NewScanner(fetcher Fetcher, clock Clock, logger *zap.Logger, emitter progress.Emitter) *Scanner {
	return &Scanner{fetcher: fetcher, clock: clock, logger: logger, emitter: emitter}
}

// Scan visits the seed page and, unless singlePage is set, every same-host
// page reachable through anchor links. Pages that fail to fetch or are not
// HTML are skipped; the walk itself only fails on a bad seed or a canceled
// context.
func (s *Scanner) Scan(ctx context.Context, seed string, singlePage bool) (assets.Manifest, error) {
	seedURL, err := url.Parse(strings.TrimSpace(seed))
	if err != nil || seedURL.Scheme == "" || seedURL.Host == "" {
		return assets.Manifest{}, fmt.Errorf("invalid seed url %q", seed)
	}
	host := seedURL.Host

	builder := assets.NewManifestBuilder()
	visited := make(map[string]struct{})
	stack := []string{normalizePage(seedURL)}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return assets.Manifest{}, err
		}
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		res, err := s.fetcher.Fetch(ctx, current)
		if err != nil {
			s.logger.Debug("page fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			s.logger.Debug("page skipped", zap.String("url", current), zap.Int("status", res.StatusCode))
			continue
		}
		if !strings.Contains(res.ContentType, "text/html") {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			s.logger.Debug("page parse failed", zap.String("url", current), zap.Error(err))
			continue
		}

		s.emitter.Emit(progress.LogEvent("scanning "+current, s.clock.Now()))
		builder.AddPage(current)
		s.collect(builder, doc, current)

		if singlePage {
			continue
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			resolved := resolveRef(current, href)
			if resolved == nil || resolved.Host != host {
				return
			}
			next := normalizePage(resolved)
			if _, seen := visited[next]; !seen {
				stack = append(stack, next)
			}
		})
	}
	return builder.Build(), nil
}

func (s *Scanner) collect(builder *assets.ManifestBuilder, doc *goquery.Document, pageURL string) {
	add := func(category assets.Category, raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		resolved := resolveRef(pageURL, raw)
		if resolved == nil {
			return
		}
		normalized := assets.Normalize(resolved.String())
		if assets.IsPlatformAsset(normalized) {
			builder.AddAsset(category, normalized)
		}
	}
	addSet := func(category assets.Category, srcset string) {
		for _, candidate := range strings.Split(srcset, ",") {
			fields := strings.Fields(strings.TrimSpace(candidate))
			if len(fields) > 0 {
				add(category, fields[0])
			}
		}
	}

	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		rel, _ := sel.Attr("rel")
		words := strings.Fields(strings.ToLower(rel))
		if hasWord(words, "stylesheet") {
			add(assets.CategoryCSS, href)
		}
		if hasWord(words, "apple-touch-icon") || (hasWord(words, "shortcut") && hasWord(words, "icon")) {
			add(assets.CategoryImages, href)
		}
		if hasWord(words, "preload") {
			as, _ := sel.Attr("as")
			add(assets.PreloadBucket(as), href)
		}
	})

	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(assets.CategoryJS, src)
	})

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := sel.Attr(attr); ok {
				add(assets.CategoryImages, v)
			}
		}
		for _, attr := range []string{"srcset", "data-srcset"} {
			if v, ok := sel.Attr(attr); ok {
				addSet(assets.CategoryImages, v)
			}
		}
	})

	doc.Find("source").Each(func(_ int, sel *goquery.Selection) {
		category := assets.CategoryImages
		if parent := goquery.NodeName(sel.Parent()); parent == "video" || parent == "audio" {
			category = assets.CategoryMedia
		}
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := sel.Attr(attr); ok {
				add(category, v)
			}
		}
		for _, attr := range []string{"srcset", "data-srcset"} {
			if v, ok := sel.Attr(attr); ok {
				addSet(category, v)
			}
		}
	})

	doc.Find("video[src], audio[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(assets.CategoryMedia, src)
	})

	doc.Find("meta[content]").Each(func(_ int, sel *goquery.Selection) {
		content, _ := sel.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		var candidate string
		switch {
		case strings.HasPrefix(content, "http://"), strings.HasPrefix(content, "https://"), strings.HasPrefix(content, "//"):
			candidate = assets.Normalize(content)
		case strings.HasPrefix(content, "/"):
			if resolved := resolveRef(pageURL, content); resolved != nil {
				candidate = resolved.String()
			}
		default:
			return
		}
		if candidate != "" && assets.IsPlatformAsset(candidate) {
			builder.AddAsset(assets.CategoryImages, candidate)
		}
	})
}

func hasWord(words []string, want string) bool {
	for _, w := range words {
		if w == want {
			return true
		}
	}
	return false
}

// normalizePage canonicalizes a page URL for the visited set: scheme, host
// and path only, with any trailing slash removed.
func normalizePage(u *url.URL) string {
	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")
}

// resolveRef resolves ref against the current page, matching how relative
// links behave when the page URL has no trailing slash.
func resolveRef(pageURL, ref string) *url.URL {
	base, err := url.Parse(pageURL + "/")
	if err != nil {
		return nil
	}
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil
	}
	return base.ResolveReference(parsed)
}
