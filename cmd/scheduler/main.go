package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/content-agent/internal/config"
	"github.com/content-agent/internal/keywords"
	"github.com/content-agent/internal/library"
	"github.com/content-agent/internal/models"
	"github.com/content-agent/internal/storage"
	"github.com/content-agent/internal/storage/sqlite"
	"github.com/content-agent/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "content-scheduler",
		Short: "Background scheduler for the content agent",
		Long: `Runs scheduled library reloads and keyword pool maintenance.
This daemon should be run as a service for autonomous operation.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	log.Info().Msg("Starting content agent scheduler")

	var lib *library.Library
	if cfg.Library.Path != "" {
		lib, err = library.LoadFile(cfg.Library.Path, log)
		if err != nil {
			return fmt.Errorf("failed to load library: %w", err)
		}
	} else {
		lib = library.Default(log)
	}

	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	go startHealthServer(cfg.Scheduler.HealthAddr)

	selector := keywords.New(lib, log)

	c := cron.New(cron.WithLogger(cronLogger{log}))

	// Keyword pool maintenance: when the pool is stale per its refresh
	// policy, restore the newest snapshotted pool (editors refresh through
	// the CLI, snapshots are the handoff) and stamp the refresh date.
	_, err = c.AddFunc(cfg.Scheduler.RefreshCron, func() {
		ctx := context.Background()
		if !selector.NeedsRefresh() {
			log.Debug().Msg("Keyword pool still fresh")
			return
		}
		log.Info().Msg("Keyword pool is stale, refreshing")

		snap, err := repo.LatestPoolSnapshot(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read pool snapshots")
			return
		}

		pool := lib.Pool()
		primary, secondary := pool.Primary, pool.Secondary
		if snap != nil {
			primary, secondary = snap.Primary, snap.Secondary
		}
		if err := selector.Refresh(primary, secondary); err != nil {
			log.Error().Err(err).Msg("Keyword pool refresh failed")
			return
		}

		refreshed := lib.Pool()
		if err := repo.SavePoolSnapshot(ctx, &models.PoolSnapshot{
			Primary:     models.StringSlice(refreshed.Primary),
			Secondary:   models.StringSlice(refreshed.Secondary),
			Frequency:   string(refreshed.Frequency),
			RefreshedAt: refreshed.LastRefresh,
		}); err != nil {
			log.Error().Err(err).Msg("Failed to snapshot refreshed pool")
			return
		}
		log.Info().Int("primary", len(primary)).Msg("Keyword pool refreshed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.RefreshCron).Msg("Refresh job scheduled")

	// Library reload: pick up rule table edits without a restart. Only
	// meaningful when the library came from a file.
	if cfg.Library.Path != "" {
		_, err = c.AddFunc(cfg.Scheduler.ReloadCron, func() {
			if err := lib.Reload(); err != nil {
				log.Error().Err(err).Msg("Library reload failed, keeping current table")
				return
			}
			log.Info().Str("version", lib.Version()).Msg("Library reloaded")
		})
		if err != nil {
			return fmt.Errorf("failed to schedule reload job: %w", err)
		}
		log.Info().Str("cron", cfg.Scheduler.ReloadCron).Msg("Reload job scheduled")
	}

	c.Start()
	log.Info().Msg("Scheduler started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down scheduler")
	c.Stop()

	return nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}

// startHealthServer starts a simple HTTP server for liveness checks
func startHealthServer(addr string) {
	if addr == "" {
		addr = ":8090"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Info().Str("addr", addr).Msg("Health check server starting")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Health server failed")
	}
}
