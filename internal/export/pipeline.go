// Package export runs the synchronous export pipeline: validate the seed,
// crawl, download, rewrite, and apply the optional post-processing steps.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/assets"
	"github.com/webflowx/exporter/internal/crawler"
	"github.com/webflowx/exporter/internal/progress"
)

// ErrConflictingFlags rejects a run configured as both debug and silent.
var ErrConflictingFlags = errors.New("debug and silent options cannot be used together")

// ErrValidation marks failures that abort a run before any crawl or download
// work starts: unreachable seed, bad status, or a page with no Webflow
// indicators.
var ErrValidation = errors.New("validation failed")

// Options configures one pipeline run.
type Options struct {
	URL             string
	OutputDir       string
	RemoveBadge     bool
	GenerateSitemap bool
	SinglePage      bool
}

// Clock supplies timestamps for events and the sitemap date stamp.
type Clock interface {
	Now() time.Time
}

// Pipeline executes an export run end to end. Construct one per run with the
// run-scoped logger and emitter.
type Pipeline struct {
	scanner *crawler.Scanner
	client  *http.Client
	clock   Clock
	logger  *zap.Logger
	emitter progress.Emitter
}

func New(scanner *crawler.Scanner, client *http.Client, clock Clock, logger *zap.Logger, emitter progress.Emitter) *Pipeline {
	return &Pipeline{scanner: scanner, client: client, clock: clock, logger: logger, emitter: emitter}
}

// CheckVerbosity validates the mutually exclusive debug/silent flags. Both the
// CLI and the API call it before any work starts.
func CheckVerbosity(debug, silent bool) error {
	if debug && silent {
		return ErrConflictingFlags
	}
	return nil
}

// Run executes validate, clear output, scan, download and the optional badge
// and sitemap steps, emitting a stage event around each milestone. The
// returned manifest describes everything the crawl discovered.
func (p *Pipeline) Run(ctx context.Context, opts Options) (assets.Manifest, error) {
	p.stage(progress.StageValidateURL)
	if err := p.validate(ctx, opts.URL); err != nil {
		return assets.Manifest{}, err
	}

	p.stage(progress.StageClearOutput)
	if err := clearOutput(opts.OutputDir); err != nil {
		return assets.Manifest{}, fmt.Errorf("clear output %s: %w", opts.OutputDir, err)
	}

	p.stage(progress.StageScanning)
	manifest, err := p.scanner.Scan(ctx, opts.URL, opts.SinglePage)
	if err != nil {
		return assets.Manifest{}, err
	}
	p.emitter.Emit(progress.StageMessageEvent(progress.StageScanned,
		fmt.Sprintf("found %d pages", len(manifest.HTML)), p.clock.Now()))

	p.stage(progress.StageDownloading)
	dl := newDownloader(p.client, p.clock, p.logger, p.emitter)
	if err := dl.Run(ctx, manifest, opts.OutputDir); err != nil {
		return assets.Manifest{}, err
	}
	p.stage(progress.StageDownloaded)
	p.logger.Info("assets downloaded", zap.String("output", opts.OutputDir))

	if opts.RemoveBadge {
		p.stage(progress.StageRemovingBadge)
		if err := RemoveBadge(opts.OutputDir, p.logger); err != nil {
			return assets.Manifest{}, err
		}
		p.stage(progress.StageBadgeRemoved)
	}

	if opts.GenerateSitemap {
		p.stage(progress.StageGeneratingSitemap)
		if err := WriteSitemap(opts.OutputDir, manifest, p.clock.Now()); err != nil {
			return assets.Manifest{}, err
		}
		p.stage(progress.StageSitemapGenerated)
		p.logger.Info("sitemap generated", zap.String("path", filepath.Join(opts.OutputDir, "sitemap.xml")))
	}

	return manifest, nil
}

func (p *Pipeline) stage(s progress.Stage) {
	p.emitter.Emit(progress.StageEvent(s, p.clock.Now()))
}

// clearOutput empties the output directory, creating it when missing.
func clearOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
