package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/streamgoal/match-portal/external/streamed"
	"github.com/streamgoal/match-portal/internal/config"
	"github.com/streamgoal/match-portal/internal/infrastructure/repository/memory"
	"github.com/streamgoal/match-portal/internal/interfaces/httpapi"
	"github.com/streamgoal/match-portal/internal/observability"
	"github.com/streamgoal/match-portal/internal/platform/cache"
	"github.com/streamgoal/match-portal/internal/platform/logging"
	"github.com/streamgoal/match-portal/internal/platform/resilience"
	"github.com/streamgoal/match-portal/internal/platform/scheduler"
	"github.com/streamgoal/match-portal/internal/usecase"
)

// App owns the HTTP server, the background pollers and the observability
// servers, and tears them down in reverse order on Shutdown.
type App struct {
	Server *http.Server

	scheduler   *scheduler.Scheduler
	validation  *usecase.StreamValidationService
	pprofServer *http.Server

	stopPyroscope   func() error
	shutdownTracing func(context.Context) error

	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start pprof: %w", err)
	}

	client := streamed.NewClient(streamed.ClientConfig{
		BaseURL:      cfg.StreamedBaseURL,
		Timeout:      cfg.StreamedTimeout,
		MaxRetries:   cfg.StreamedMaxRetries,
		ProbeTimeout: cfg.StreamProbeTimeout,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StreamedCircuitEnabled,
			FailureThreshold: cfg.StreamedCircuitFailureCount,
			OpenTimeout:      cfg.StreamedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StreamedCircuitHalfOpenMaxReq,
		},
	})

	validation, err := usecase.NewStreamValidationService(client, usecase.StreamValidationConfig{
		ValidTTL:     cfg.ValidationValidTTL,
		InvalidTTL:   cfg.ValidationInvalidTTL,
		GracePeriod:  cfg.ValidationGracePeriod,
		ProbeTimeout: cfg.StreamProbeTimeout,
		BatchSize:    cfg.ValidationBatchSize,
		Enabled:      cfg.ValidationEnabled,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build stream validation: %w", err)
	}

	snapshots := cache.NewStore(cfg.PollTodayInterval)
	feedSvc := usecase.NewFeedService(client, client, validation, snapshots, usecase.FeedConfig{
		LiveWindow:       cfg.LiveWindow,
		DedupWindow:      cfg.FetchDedupWindow,
		LiveSnapshotTTL:  cfg.PollLiveInterval,
		TodaySnapshotTTL: cfg.PollTodayInterval,
		AllSnapshotTTL:   cfg.PollAllInterval,
		Logger:           logger,
	})
	feedbackSvc := usecase.NewFeedbackService(memory.NewFeedbackRepository(), cfg.FeedbackMaxLength, logger)
	predictionSvc := usecase.NewPredictionService(memory.NewPredictionRepository(), logger)

	handler := httpapi.NewHandler(feedSvc, feedbackSvc, predictionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	sched := scheduler.New(logger)
	sched.Register(scheduler.Job{
		Name:       "refresh-live",
		Interval:   cfg.PollLiveInterval,
		RunOnStart: true,
		Run: func(ctx context.Context) {
			feedSvc.RefreshCollection(ctx, usecase.CollectionLive)
		},
	})
	sched.Register(scheduler.Job{
		Name:     "refresh-today",
		Interval: cfg.PollTodayInterval,
		Run: func(ctx context.Context) {
			feedSvc.RefreshCollection(ctx, usecase.CollectionToday)
		},
	})
	sched.Register(scheduler.Job{
		Name:     "refresh-all",
		Interval: cfg.PollAllInterval,
		Run: func(ctx context.Context) {
			feedSvc.RefreshCollection(ctx, usecase.CollectionAll)
		},
	})
	sched.Register(scheduler.Job{
		Name:     "prune-validation-cache",
		Interval: cfg.ValidationPruneInterval,
		Run: func(_ context.Context) {
			validation.Prune()
		},
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:          server,
		scheduler:       sched,
		validation:      validation,
		pprofServer:     pprofServer,
		stopPyroscope:   stopPyroscope,
		shutdownTracing: shutdownTracing,
		logger:          logger,
	}, nil
}

// Start launches the background pollers. The HTTP server is started by the
// caller so it can own ListenAndServe error handling.
func (a *App) Start(ctx context.Context) {
	a.scheduler.Start(ctx)
}

func (a *App) Shutdown(ctx context.Context) error {
	a.scheduler.Stop()
	a.validation.Close()

	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := observability.StopPprofServer(a.pprofServer, a.logger, 5*time.Second); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.stopPyroscope != nil {
		if err := a.stopPyroscope(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
