package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"ContentRadar/internal/config"
	"ContentRadar/internal/fetch"
	"ContentRadar/internal/infrastructure/github"
	"ContentRadar/internal/infrastructure/scheduler"
	"ContentRadar/internal/infrastructure/storage"
	"ContentRadar/internal/infrastructure/telegram"
	"ContentRadar/internal/logging"
	"ContentRadar/internal/ports"
	"ContentRadar/internal/strategy"
	"ContentRadar/internal/usecase"
)

// Application wires configuration to the discovery pipeline and its
// lifecycle.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	fetcher  ports.PageFetcher
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}
	repository := storage.NewPostgresRepository(db)

	fetcher := fetch.New(cfg.Fetcher.Timeout(), cfg.Fetcher.Interval())
	resolver := strategy.NewResolver(repository, baseLogger.With("component", "resolver"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var issues ports.IssueReporter
	if cfg.GitHub.Token != "" && cfg.GitHub.Repo != "" {
		issues = github.NewIssueReporter(cfg.GitHub.Token, cfg.GitHub.Repo)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Providers:   cfg.Providers,
		Fetcher:     fetcher,
		Resolver:    resolver,
		Repository:  repository,
		Telemetry:   repository,
		Issues:      issues,
		Notifier:    notifier,
		Concurrency: cfg.Pipeline.Limit(),
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		fetcher:  fetcher,
		db:       db,
		logger:   baseLogger,
	}, nil
}

// Run executes the pipeline once, or on a ticker when the scheduler
// cadence is configured, until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	every := a.cfg.Scheduler.Every()
	if every <= 0 {
		return a.pipeline.Run(ctx)
	}

	driver := scheduler.NewTickerScheduler(every)
	runner := usecase.NewScheduler(driver, a.pipeline)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Close releases the shared HTTP client and database handle.
func (a *Application) Close() {
	if a.fetcher != nil {
		a.fetcher.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}
}
