package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/api"
	"github.com/webflowx/exporter/internal/clock/system"
	"github.com/webflowx/exporter/internal/config"
	"github.com/webflowx/exporter/internal/crawler"
	"github.com/webflowx/exporter/internal/id/uuid"
	"github.com/webflowx/exporter/internal/job"
	"github.com/webflowx/exporter/internal/logging"
	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/store"
	"github.com/webflowx/exporter/internal/store/postgres"
	"github.com/webflowx/exporter/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the export service HTTP API",
		Long: `serve exposes exports as asynchronous jobs: POST /exports starts one,
its progress streams through GET /exports/{job_id}/progress, and the finished
archive downloads from GET /exports/{job_id}/download.`,
		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	base, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = base.Sync() }()

	clk := system.New()
	registry := job.NewRegistry(uuid.NewGenerator(), clk)
	fetcher := crawler.NewCollyFetcher(crawler.FetchConfig{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	client := &http.Client{Timeout: cfg.FetchTimeout()}

	var extra []job.SinkFactory
	if cfg.DB.DSN != "" {
		repo, err := postgres.NewStore(cmd.Context(), cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer repo.Close()
		extra = append(extra, func(jobID string) progress.Emitter {
			return store.NewSink(repo, base, jobID)
		})
		base.Info("progress persistence enabled")
	}

	runner := job.NewRunner(registry, fetcher, client, clk, base, cfg.Export.Root, extra...)
	server := api.NewServer(registry, runner, base, version.Resolve(), cfg.CORSOrigins(base))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	base.Info("export service listening", zap.String("addr", addr))
	return httpServer.ListenAndServe()
}
