package job

import (
	"context"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/archive"
	"github.com/webflowx/exporter/internal/crawler"
	"github.com/webflowx/exporter/internal/export"
	"github.com/webflowx/exporter/internal/logging"
	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/telemetry"
)

// SinkFactory builds an extra per-job emitter, such as a store sink. A
// factory may return nil to opt out for a job.
type SinkFactory func(jobID string) progress.Emitter

// Runner launches one goroutine per export job and drives it to a terminal
// state. Jobs cannot be cancelled or retried.
type Runner struct {
	registry *Registry
	fetcher  crawler.Fetcher
	client   *http.Client
	clock    Clock
	logger   *zap.Logger
	root     string
	extra    []SinkFactory
}

// NewRunner builds a runner writing job output under root. Extra sinks
// receive every event alongside the registry.
func NewRunner(registry *Registry, fetcher crawler.Fetcher, client *http.Client, clock Clock, logger *zap.Logger, root string, extra ...SinkFactory) *Runner {
	return &Runner{
		registry: registry,
		fetcher:  fetcher,
		client:   client,
		clock:    clock,
		logger:   logger,
		root:     root,
		extra:    extra,
	}
}

// Start validates the flag combination, registers a queued job, and launches
// its pipeline in the background. The caller never blocks on the export.
func (r *Runner) Start(params Params) (Job, error) {
	if err := export.CheckVerbosity(params.Debug, params.Silent); err != nil {
		return Job{}, err
	}
	j, err := r.registry.Create(params)
	if err != nil {
		return Job{}, err
	}
	go r.run(j.ID, params)
	return j, nil
}

func (r *Runner) run(id string, params Params) {
	logger := logging.ForJob(r.logger, id, params.Debug, params.Silent)
	emitter := r.emitter(id, logger)

	r.registry.MarkRunning(id)
	emitter.Emit(progress.StageEvent(progress.StageStart, r.clock.Now()))

	outputDir := filepath.Join(r.root, id, "site")
	scanner := crawler.NewScanner(r.fetcher, r.clock, logger, emitter)
	pipeline := export.New(scanner, r.client, r.clock, logger, emitter)

	manifest, err := pipeline.Run(context.Background(), export.Options{
		URL:             params.URL,
		OutputDir:       outputDir,
		RemoveBadge:     params.RemoveBadge,
		GenerateSitemap: params.GenerateSitemap,
		SinglePage:      params.SinglePage,
	})
	if err != nil {
		r.fail(id, logger, emitter, err)
		return
	}

	emitter.Emit(progress.StageEvent(progress.StageZipping, r.clock.Now()))
	archivePath := filepath.Join(r.root, id, "export.zip")
	if _, err := archive.Build(outputDir, manifest, archivePath); err != nil {
		r.fail(id, logger, emitter, err)
		return
	}
	emitter.Emit(progress.StageEvent(progress.StageZipped, r.clock.Now()))

	// The embedded snapshot covers everything up to this point; the terminal
	// event itself is appended after, so it is always the last one observed.
	snap, err := r.registry.Get(id)
	if err != nil {
		r.fail(id, logger, emitter, err)
		return
	}
	size, err := archive.EmbedJSON(archivePath, "progress.json", snap.Events)
	if err != nil {
		r.fail(id, logger, emitter, err)
		return
	}

	emitter.Emit(progress.StageEvent(progress.StageComplete, r.clock.Now()))
	r.registry.MarkComplete(id, Archive{Path: archivePath, Size: size})
	telemetry.ObserveJob(string(StatusComplete))
	logger.Info("export complete", zap.String("archive", archivePath), zap.Int64("size", size))
}

func (r *Runner) fail(id string, logger *zap.Logger, emitter progress.Emitter, err error) {
	emitter.Emit(progress.StageMessageEvent(progress.StageError, err.Error(), r.clock.Now()))
	r.registry.MarkFailed(id, err.Error())
	telemetry.ObserveJob(string(StatusError))
	logger.Error("export failed", zap.Error(err))
}

func (r *Runner) emitter(id string, logger *zap.Logger) progress.Emitter {
	sinks := progress.Multi{
		progress.EmitterFunc(func(e progress.Event) { r.registry.AppendEvent(id, e) }),
		progress.NewLogSink(logger),
	}
	for _, factory := range r.extra {
		if sink := factory(id); sink != nil {
			sinks = append(sinks, sink)
		}
	}
	return sinks
}
