package export

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// The attribution badge is re-inserted by a known minified bundle. These
// literal substitutions neutralize its display and removal guards; if the
// upstream bundle shape changes they silently no-op.
const badgeMarker = `class="w-webflow-badge"`

var badgeSubstitutions = [][2]string{
	{`/\.webflow\.io$/i.test(h)`, `false`},
	{`if(a){i&&e.remove();`, `if(true){i&&e.remove();`},
}

// RemoveBadge patches every .js file under the output's js folder that
// contains the badge marker. A missing js folder is not an error.
func RemoveBadge(outputDir string, logger *zap.Logger) error {
	jsDir := filepath.Join(outputDir, "js")
	if _, err := os.Stat(jsDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(jsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".js") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content := string(raw)
		if !strings.Contains(content, badgeMarker) {
			return nil
		}
		logger.Info("removing webflow badge", zap.String("path", path))
		for _, sub := range badgeSubstitutions {
			content = strings.ReplaceAll(content, sub[0], sub[1])
		}
		return os.WriteFile(path, []byte(content), 0o644)
	})
}
