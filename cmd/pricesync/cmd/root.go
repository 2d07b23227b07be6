package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hotmart-price-sync/config"
	"hotmart-price-sync/logs"
	"hotmart-price-sync/pipeline"
	"hotmart-price-sync/scraper/hotmart"
	"hotmart-price-sync/storage"
)

// newRootCmd builds the single entry point. There are no flags: the
// scheduler invokes the binary as-is and all options come from the
// environment.
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "pricesync",
		Short:         "Sync per-country Hotmart checkout prices into the country_prices table",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New(config.NewViper())
	if err != nil {
		return fmt.Errorf("%w: %v", errConfig, err)
	}

	logger, err := logs.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", errConfig, err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	var store pipeline.PriceStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pg, err := storage.NewPostgresStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w: %v", errConfig, err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("%w: %v", errConfig, err)
		}
		store = pg
	default:
		store = storage.NewSupabaseStore(cfg)
	}

	extractor := hotmart.NewExtractor(cfg, log)
	orchestrator := pipeline.NewOrchestrator(cfg, extractor, store, log)

	started := time.Now()
	log.Infow("price sync starting",
		"countries", len(cfg.Countries), "backend", cfg.StoreBackend, "pacing", cfg.PacingDelay)

	report := orchestrator.Run(ctx)
	fmt.Print(pipeline.FormatSummary(report))

	if cfg.AuditCSVPath != "" {
		if err := storage.NewAuditWriter(cfg.AuditCSVPath).Append(started, report); err != nil {
			log.Warnw("audit log write failed", "path", cfg.AuditCSVPath, "error", err)
		}
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d countries failed", report.Failed, report.Total)
	}
	return nil
}
