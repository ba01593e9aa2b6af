package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/energy-forecast/internal/logger"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// PredictURL is the endpoint form submissions are posted to.
	// Defaults to this server's own /predict.
	PredictURL     string        `validate:"required,url"`
	PredictTimeout time.Duration `validate:"gte=0"`
	PredictRPS     float64       `validate:"gte=0"`
	PredictBurst   int           `validate:"gte=1"`

	// Model parameter files; missing files fall back to built-in defaults.
	ScalersPath         string
	ModelPath           string
	ModelReloadInterval time.Duration `validate:"gte=0"` // 0 disables reloading

	// Page session retention.
	SessionMaxAge        time.Duration `validate:"gt=0"`
	SessionMaxCount      int           `validate:"gte=0"` // 0 = unlimited
	SessionSweepInterval time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text plain"` // plain omits file:line
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.PredictURL = getenvDefault("PREDICT_URL", "http://localhost:"+cfg.Port+"/predict")

	// Upper bound for a single prediction request.
	if cfg.PredictTimeout, err = getenvDuration("PREDICT_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.PredictRPS, err = getenvFloat("PREDICT_RPS", 5); err != nil {
		return nil, err
	}
	cfg.PredictBurst = getenvInt("PREDICT_BURST", 5)

	cfg.ScalersPath = os.Getenv("SCALERS_PATH")
	cfg.ModelPath = os.Getenv("MODEL_PATH")
	if cfg.ModelReloadInterval, err = getenvDuration("MODEL_RELOAD_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.SessionMaxCount = getenvInt("SESSION_MAX_COUNT", 1000)
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "10m"); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
