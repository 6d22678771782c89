package export

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/assets"
)

// Conservative scan for absolute or protocol-relative URLs anywhere in the
// stylesheet text, not just inside url(...).
var cssURLPattern = regexp.MustCompile(`https?://[^\s"')]+|//[^\s"')]+`)

// RewriteCSS replaces platform asset URLs inside a stylesheet with paths
// relative to the stylesheet itself, downloading each referenced image into
// the shared images folder unless it is already on disk. The dedup set is
// scoped to one invocation; cross-file dedup relies on the existence check.
func RewriteCSS(ctx context.Context, client *http.Client, logger *zap.Logger, path, outputDir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(raw)
	logger.Info("processing css file", zap.String("path", path))

	seen := make(map[string]struct{})
	replacements := make(map[string]string)
	downloaded := make(map[string]struct{})
	cssDir := filepath.Dir(path)

	for _, rawURL := range cssURLPattern.FindAllString(content, -1) {
		if _, ok := seen[rawURL]; ok {
			continue
		}
		seen[rawURL] = struct{}{}

		normalized := assets.Normalize(rawURL)
		if !assets.IsPlatformAsset(normalized) {
			continue
		}
		local, ok := assets.LocalPath(assets.CategoryImages, normalized)
		if !ok {
			continue
		}
		imagePath := filepath.Join(outputDir, filepath.FromSlash(local))
		relPath, err := filepath.Rel(cssDir, imagePath)
		if err != nil {
			continue
		}

		if _, done := downloaded[normalized]; !done {
			if _, statErr := os.Stat(imagePath); os.IsNotExist(statErr) {
				if _, err := fetchToFile(ctx, client, normalized, imagePath); err != nil {
					logger.Error("failed to download image", zap.String("url", normalized), zap.Error(err))
				} else {
					logger.Info("downloaded image", zap.String("url", normalized))
				}
			}
			downloaded[normalized] = struct{}{}
		}

		replacements[rawURL] = filepath.ToSlash(relPath)
	}

	// Longest first, so a protocol-relative match never clobbers the tail of
	// an absolute one.
	originals := make([]string, 0, len(replacements))
	for original := range replacements {
		originals = append(originals, original)
	}
	sort.Slice(originals, func(i, j int) bool {
		if len(originals[i]) != len(originals[j]) {
			return len(originals[i]) > len(originals[j])
		}
		return originals[i] < originals[j]
	})
	for _, original := range originals {
		content = strings.ReplaceAll(content, original, replacements[original])
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
