package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/energy-forecast/internal/api/http"
	"github.com/i474232898/energy-forecast/internal/config"
	"github.com/i474232898/energy-forecast/internal/logger"
	"github.com/i474232898/energy-forecast/internal/model"
	"github.com/i474232898/energy-forecast/internal/predict"
	"github.com/i474232898/energy-forecast/internal/scheduler"
	"github.com/i474232898/energy-forecast/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Prediction model behind /predict.
	modelSvc, err := model.NewService(cfg.ScalersPath, cfg.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model: %v", err)
	}

	// Outbound client used by form submissions. The per-request timeout is
	// applied by the client itself.
	predictor := predict.NewClient(&http.Client{}, predict.Config{
		Endpoint:          cfg.PredictURL,
		Timeout:           cfg.PredictTimeout,
		RequestsPerSecond: cfg.PredictRPS,
		Burst:             cfg.PredictBurst,
	})

	sessions := store.NewMemoryStore(cfg.SessionMaxCount, cfg.SessionMaxAge)

	sched := scheduler.New(
		scheduler.Job{
			Name:     "session eviction",
			Interval: cfg.SessionSweepInterval,
			Run: func() error {
				if n := sessions.EvictExpired(); n > 0 {
					logger.Info("evicted %d idle sessions, %d remaining", n, sessions.Len())
				}
				return nil
			},
		},
		scheduler.Job{
			Name:     "model reload",
			Interval: cfg.ModelReloadInterval,
			Run:      modelSvc.Reload,
		},
	)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "energy-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.PredictTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "energy-forecast",
			"sessions": sessions.Len(),
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Sessions:  sessions,
		Predictor: predictor,
		Model:     modelSvc,
	})

	go func() {
		logger.Info("listening on :%s, predictions via %s", cfg.Port, cfg.PredictURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown: %v", err)
	}
}
