package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sectorbrief/internal/analytics"
	"sectorbrief/internal/cache"
	"sectorbrief/internal/enrich"
	"sectorbrief/internal/logger"
	"sectorbrief/internal/market"
	"sectorbrief/internal/model"
	"sectorbrief/internal/pipeline"
	"sectorbrief/internal/research"
	"sectorbrief/internal/schedule"
	"sectorbrief/internal/server"
	"sectorbrief/internal/store"
	"sectorbrief/internal/verify"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the brief service: daily scheduler plus HTTP trigger surface",
	Long: `Serve starts the long-running service. A daily timer generates one brief
per configured sector at the scheduled local time; the HTTP surface lets
clients read today's brief (generating lazily when absent), trigger
generation explicitly and query cached sector analytics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	gen, err := buildGenerator(cfg, st, log)
	if err != nil {
		return err
	}

	sectors := cfg.ScheduleSectors()
	runner := func(ctx context.Context) {
		for _, sector := range sectors {
			if _, err := gen.Generate(ctx, sector); err != nil {
				if errors.Is(err, pipeline.ErrGenerationInProgress) {
					log.Warn("scheduled run skipped, generation in flight",
						zap.String("sector", string(sector)))
					continue
				}
				log.Error("scheduled generation failed",
					zap.String("sector", string(sector)),
					zap.Error(err))
			}
		}
	}

	sched, err := schedule.New(cfg.Schedule, runner, schedule.SystemClock(), log)
	if err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	analyticsCache := cache.NewMemoryCache(cfg.Analytics.CacheTTL, 10*time.Minute)
	analyticsSvc := analytics.NewService(cfg.Analytics, analyticsCache, log)

	srv := server.New(cfg.Server.Addr, gen, analyticsSvc, log)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildGenerator wires the synthesis pipeline from configuration.
func buildGenerator(cfg *model.Config, st *store.Store, log *zap.Logger) (*pipeline.Generator, error) {
	loc, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}

	researchClient := research.NewClient(cfg.Research, cfg.HTTP, log)

	quotes := market.NewClient(cfg.Market.APIKey,
		market.WithBaseURL(cfg.Market.BaseURL),
		market.WithRateLimit(cfg.Market.RequestsPerSecond),
		market.WithLogger(log))

	enricher := enrich.New(quotes, st, log)

	var verifier pipeline.SourceVerifier
	if cfg.Verify.Enabled {
		verifier = verify.New(cfg.Verify, cfg.HTTP, log)
	}

	return pipeline.NewGenerator(researchClient, enricher, st, verifier, loc, log), nil
}
