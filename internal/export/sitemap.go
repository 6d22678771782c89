package export

import (
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/webflowx/exporter/internal/assets"
)

var sitemapTemplate = template.Must(template.New("sitemap").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap-image/1.1">
{{- range .Pages}}
  <url>
    <loc>{{.}}</loc>
    <lastmod>{{$.LastMod}}</lastmod>
  </url>
{{- end}}
</urlset>
`))

// WriteSitemap emits sitemap.xml at the output root with one url entry per
// crawled page, in manifest order. The lastmod stamp is the generation date.
func WriteSitemap(outputDir string, manifest assets.Manifest, now time.Time) error {
	f, err := os.Create(filepath.Join(outputDir, "sitemap.xml"))
	if err != nil {
		return err
	}
	err = sitemapTemplate.Execute(f, struct {
		Pages   []string
		LastMod string
	}{
		Pages:   manifest.HTML,
		LastMod: now.Format("2006-01-02"),
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
