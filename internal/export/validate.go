package export

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// validate fetches the seed URL and requires at least one Webflow indicator:
// a link or script pointing at website-files.com, or a generator meta tag
// naming Webflow.
func (p *Pipeline) validate(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: invalid url %q", ErrValidation, rawURL)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to reach %s: %v", ErrValidation, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s responded with status %d", ErrValidation, rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: could not parse %s: %v", ErrValidation, rawURL, err)
	}

	var indicators []string
	doc.Find("link[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, _ := sel.Attr("href"); strings.Contains(href, "website-files.com") {
			indicators = append(indicators, "website-files.com links")
			return false
		}
		return true
	})
	doc.Find("script[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if src, _ := sel.Attr("src"); strings.Contains(src, "website-files.com") {
			indicators = append(indicators, "website-files.com scripts")
			return false
		}
		return true
	})
	if content, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok {
		if strings.Contains(strings.ToLower(content), "webflow") {
			indicators = append(indicators, "Webflow meta generator")
		}
	}

	if len(indicators) == 0 {
		return fmt.Errorf("%w: %s does not appear to be a Webflow site", ErrValidation, rawURL)
	}
	p.logger.Debug("webflow site detected", zap.Strings("indicators", indicators))
	return nil
}
