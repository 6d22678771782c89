package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/assets"
	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/telemetry"
)

// downloader fetches every manifest entry to disk, rewriting HTML and CSS
// files as they land. Fetches run strictly sequentially; one failed asset
// never aborts the batch.
type downloader struct {
	client  *http.Client
	clock   Clock
	logger  *zap.Logger
	emitter progress.Emitter
}

func newDownloader(client *http.Client, clock Clock, logger *zap.Logger, emitter progress.Emitter) *downloader {
	return &downloader{client: client, clock: clock, logger: logger, emitter: emitter}
}

func (d *downloader) Run(ctx context.Context, manifest assets.Manifest, outputDir string) error {
	batches := []struct {
		category assets.Category
		urls     []string
	}{
		{assets.CategoryHTML, manifest.HTML},
	}
	byCategory := manifest.Assets()
	for _, category := range assets.AssetCategories {
		batches = append(batches, struct {
			category assets.Category
			urls     []string
		}{category, byCategory[category]})
	}

	for _, batch := range batches {
		d.logger.Debug("downloading batch", zap.String("category", string(batch.category)), zap.Int("count", len(batch.urls)))
		for _, rawURL := range batch.urls {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, ok := relativePath(batch.category, rawURL)
			if !ok {
				d.logger.Debug("skipping asset with empty filename",
					zap.String("category", string(batch.category)), zap.String("url", rawURL))
				continue
			}
			target := filepath.Join(outputDir, filepath.FromSlash(rel))

			d.emitter.Emit(progress.DownloadEvent(rawURL, rel, progress.DownloadStart, d.clock.Now()))
			d.logger.Info("downloading", zap.String("url", rawURL), zap.String("target", target))

			written, err := fetchToFile(ctx, d.client, rawURL, target)
			if err != nil {
				d.logger.Error("failed to download asset", zap.String("url", rawURL), zap.Error(err))
				d.emitter.Emit(progress.LogEvent(fmt.Sprintf("failed to download %s: %v", rawURL, err), d.clock.Now()))
				telemetry.ObserveAsset(string(batch.category), "error", 0)
				continue
			}
			telemetry.ObserveAsset(string(batch.category), "success", written)

			switch batch.category {
			case assets.CategoryHTML:
				if err := RewriteHTML(target); err != nil {
					return fmt.Errorf("rewrite %s: %w", target, err)
				}
			case assets.CategoryCSS:
				if err := RewriteCSS(ctx, d.client, d.logger, target, outputDir); err != nil {
					return fmt.Errorf("rewrite %s: %w", target, err)
				}
			}

			d.emitter.Emit(progress.DownloadEvent(rawURL, rel, progress.DownloadComplete, d.clock.Now()))
		}
	}
	return nil
}

// relativePath maps a manifest URL to its path under the output root. Pages
// mirror the URL path with an .html suffix; everything else flattens into its
// category folder.
func relativePath(category assets.Category, rawURL string) (string, bool) {
	if category != assets.CategoryHTML {
		return assets.LocalPath(category, rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	pagePath := strings.Trim(u.Path, "/")
	if pagePath == "" {
		return "index.html", true
	}
	return pagePath + ".html", true
}

// fetchToFile streams one URL to disk, creating parent directories as needed.
func fetchToFile(ctx context.Context, client *http.Client, rawURL, target string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
