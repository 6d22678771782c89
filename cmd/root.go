// Package cmd defines and implements the CLI commands for the exporter
// executable.
package cmd

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/clock/system"
	"github.com/webflowx/exporter/internal/config"
	"github.com/webflowx/exporter/internal/crawler"
	"github.com/webflowx/exporter/internal/export"
	"github.com/webflowx/exporter/internal/logging"
	"github.com/webflowx/exporter/internal/progress"
	"github.com/webflowx/exporter/internal/version"
)

var (
	cfgFile string

	flagURL         string
	flagOutput      string
	flagRemoveBadge bool
	flagSitemap     bool
	flagSinglePage  bool
	flagDebug       bool
	flagSilent      bool
)

// newRootCmd creates the root command, which runs one export synchronously.
// The archive deliverable is produced only by the serve surface; the CLI
// leaves the output tree on disk.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Export a Webflow site into a self-contained local copy",
		Long: `exporter crawls a Webflow-hosted site, downloads every platform asset,
and rewrites all references so the output folder works standalone.`,
		Version:       version.Resolve(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExportCommand,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.Flags().StringVar(&flagURL, "url", "", "the URL to fetch data from")
	_ = cmd.MarkFlagRequired("url")
	cmd.Flags().StringVar(&flagOutput, "output", "out", "the folder to save the output to")
	cmd.Flags().BoolVar(&flagRemoveBadge, "remove-badge", false, "remove the Webflow badge")
	cmd.Flags().BoolVar(&flagSitemap, "generate-sitemap", false, "generate a sitemap.xml file")
	cmd.Flags().BoolVar(&flagSinglePage, "single-page", false, "export only the provided URL without following internal links")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug output")
	cmd.Flags().BoolVar(&flagSilent, "silent", false, "suppress all output except errors")

	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runExportCommand(cmd *cobra.Command, _ []string) error {
	if err := export.CheckVerbosity(flagDebug, flagSilent); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	base, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer func() { _ = base.Sync() }()
	logger := logging.ForJob(base, "", flagDebug, flagSilent)

	clk := system.New()
	client := &http.Client{Timeout: cfg.FetchTimeout()}
	fetcher := crawler.NewCollyFetcher(crawler.FetchConfig{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	emitter := progress.NewLogSink(logger)
	scanner := crawler.NewScanner(fetcher, clk, logger, emitter)
	pipeline := export.New(scanner, client, clk, logger, emitter)

	if _, err := pipeline.Run(cmd.Context(), export.Options{
		URL:             flagURL,
		OutputDir:       flagOutput,
		RemoveBadge:     flagRemoveBadge,
		GenerateSitemap: flagSitemap,
		SinglePage:      flagSinglePage,
	}); err != nil {
		logger.Error("export failed", zap.Error(err))
		return err
	}
	return nil
}
