package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/domain/srs"
	"github.com/ali-aktas/hocalingo-api/internal/events"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
	"github.com/ali-aktas/hocalingo-api/internal/jobs"
	"github.com/ali-aktas/hocalingo-api/internal/platform/gemini"
	"github.com/ali-aktas/hocalingo-api/internal/platform/postgres"
	"github.com/ali-aktas/hocalingo-api/internal/service"
	"github.com/ali-aktas/hocalingo-api/internal/store"
	"github.com/ali-aktas/hocalingo-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	itemStore     store.ItemStore
	progressStore store.ProgressStore
	queueStore    store.QueueStore
	sessionStore  store.SessionStore
	dailyStats    store.DayCounterStore
	quotaStore    store.DayCounterStore
	taskStore     task.TaskStore

	// Service interfaces
	srsService        srs.Service
	studyService      service.StudyService
	statsService      service.StatsService
	generationService service.GenerationService
	generator         generation.Generator

	// Event system
	eventEmitter events.EventEmitter

	// Background work
	taskRunner   *task.TaskRunner
	jobScheduler *jobs.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	location, err := cfg.Study.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid study timezone: %w", err)
	}

	// Stores
	itemStore := postgres.NewPostgresItemStore(db, logger)
	app.itemStore = itemStore
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)
	app.queueStore = postgres.NewPostgresQueueStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.dailyStats = postgres.NewPostgresDailyStatsStore(db, logger)
	app.quotaStore = postgres.NewPostgresGenerationQuotaStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Scheduling algorithm
	app.srsService = srs.NewDefaultService()

	// Study flow
	app.studyService, err = service.NewStudyService(
		db,
		app.itemStore,
		app.progressStore,
		app.queueStore,
		app.dailyStats,
		app.srsService,
		service.StudyServiceConfig{
			DailyGoal:      cfg.Study.DailyGoal,
			QueueLimit:     cfg.Study.QueueLimit,
			ReviewPickPool: cfg.Study.ReviewPickPool,
			Location:       location,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	// Session and daily-progress tracking
	app.statsService, err = service.NewStatsService(
		app.sessionStore,
		app.dailyStats,
		service.StatsServiceConfig{
			DailyGoal:          cfg.Study.DailyGoal,
			StreakLookbackDays: cfg.Study.StreakLookbackDays,
			Location:           location,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	// LLM generator
	app.generator, err = gemini.NewGeminiGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	// Task runner
	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	// Event emitter
	emitter := events.NewInMemoryEventEmitter(logger)
	app.eventEmitter = emitter

	// Generation flow
	app.generationService, err = service.NewGenerationService(
		db,
		itemStore,
		app.quotaStore,
		app.taskStore,
		app.eventEmitter,
		service.GenerationServiceConfig{
			DailyLimit: cfg.Generation.DailyLimit,
			BatchSize:  cfg.Generation.BatchSize,
			Location:   location,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	// The factory serves fresh submissions through the event handler and
	// recovery of persisted tasks through the runner.
	taskFactory := task.NewItemGenerationTaskFactory(
		app.generator,
		app.generationService,
		logger,
	)
	app.taskRunner.SetTaskFactory(taskFactory)
	emitter.RegisterHandler(task.NewTaskRequestEventHandler(taskFactory, app.taskRunner, logger))

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	// Recurring jobs: retention purge and the review reminder pick.
	app.jobScheduler, err = jobs.NewScheduler(
		app.studyService,
		jobs.NewLogNotifier(logger),
		app.dailyStats,
		app.quotaStore,
		jobs.Config{
			PurgeTime:        cfg.Jobs.PurgeTime,
			RetentionDays:    cfg.Jobs.RetentionDays,
			ReminderInterval: time.Duration(cfg.Jobs.ReminderIntervalMinutes) * time.Minute,
			ProfileID:        cfg.Profile.DefaultID,
			Location:         location,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job scheduler: %w", err)
	}
	if err := app.jobScheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job scheduler: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.jobScheduler != nil {
		app.jobScheduler.Stop()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
