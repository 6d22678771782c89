package export

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webflowx/exporter/internal/assets"
)

// RewriteHTML re-parses a downloaded page and points every platform asset
// reference at its local copy. Running it on an already-rewritten file leaves
// the attribute targets unchanged.
func RewriteHTML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(f)
	f.Close()
	if err != nil {
		return err
	}

	rewriteAttr := func(sel *goquery.Selection, attr string, category assets.Category) {
		value, ok := sel.Attr(attr)
		if !ok || value == "" {
			return
		}
		normalized := assets.Normalize(value)
		if !assets.IsPlatformAsset(normalized) {
			return
		}
		if local, ok := assets.LocalPath(category, normalized); ok {
			sel.SetAttr(attr, local)
		}
	}
	rewriteSet := func(sel *goquery.Selection, attr string, category assets.Category) {
		value, ok := sel.Attr(attr)
		if !ok || value == "" {
			return
		}
		sel.SetAttr(attr, assets.RewriteSrcset(value, category))
	}

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		rewriteAttr(sel, "src", assets.CategoryJS)
	})

	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		words := strings.Fields(strings.ToLower(rel))
		switch {
		case hasRelWord(words, "stylesheet"):
			rewriteAttr(sel, "href", assets.CategoryCSS)
		case hasRelWord(words, "apple-touch-icon"), hasRelWord(words, "shortcut") && hasRelWord(words, "icon"):
			rewriteAttr(sel, "href", assets.CategoryImages)
		case hasRelWord(words, "preload"):
			as, _ := sel.Attr("as")
			rewriteAttr(sel, "href", assets.PreloadBucket(as))
		}
	})

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		rewriteAttr(sel, "src", assets.CategoryImages)
		rewriteSet(sel, "srcset", assets.CategoryImages)
		rewriteAttr(sel, "data-src", assets.CategoryImages)
		rewriteSet(sel, "data-srcset", assets.CategoryImages)
	})

	doc.Find("video, audio").Each(func(_ int, sel *goquery.Selection) {
		rewriteAttr(sel, "src", assets.CategoryMedia)
		rewriteSet(sel, "srcset", assets.CategoryMedia)
		rewriteAttr(sel, "data-src", assets.CategoryMedia)
		rewriteSet(sel, "data-srcset", assets.CategoryMedia)
	})

	doc.Find("source").Each(func(_ int, sel *goquery.Selection) {
		category := assets.CategoryImages
		if parent := goquery.NodeName(sel.Parent()); parent == "video" || parent == "audio" {
			category = assets.CategoryMedia
		}
		rewriteAttr(sel, "src", category)
		rewriteSet(sel, "srcset", category)
		rewriteAttr(sel, "data-src", category)
		rewriteSet(sel, "data-srcset", category)
	})

	doc.Find("meta[content]").Each(func(_ int, sel *goquery.Selection) {
		rewriteAttr(sel, "content", assets.CategoryImages)
	})

	rendered, err := doc.Html()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(rendered), 0o644)
}

func hasRelWord(words []string, want string) bool {
	for _, w := range words {
		if w == want {
			return true
		}
	}
	return false
}
