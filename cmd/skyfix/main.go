package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/star/skyfix/internal/api"
	"github.com/star/skyfix/internal/auth"
	"github.com/star/skyfix/internal/capture"
	"github.com/star/skyfix/internal/locator"
	"github.com/star/skyfix/internal/stream"
	"github.com/star/skyfix/internal/tracing"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("SKYFIX_LOG_LEVEL")),
	}))

	addr := os.Getenv("SKYFIX_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.ConfigFromEnv(logger), logger)
	if err != nil {
		logger.Error("tracing init failed", "error", err)
		os.Exit(1)
	}
	defer tracing.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	est, err := locator.New(loadLocatorConfig(logger), logger)
	if err != nil {
		logger.Error("invalid locator configuration", "error", err)
		os.Exit(1)
	}

	captureCfg := loadCaptureConfig(logger)
	var archive *capture.Archive
	if captureCfg.Enabled {
		archive = capture.NewArchive(captureCfg.Dir, captureCfg.MaxFiles)
		if err := archive.Check(); err != nil {
			logger.Warn("capture archive not writable, readiness will fail", "dir", captureCfg.Dir, "error", err)
		}
	}

	streamHandler := stream.NewHandler(est, loadStreamConfig(logger), logger)

	srv := api.NewServer(addr, logger, authCfg, est, archive, streamHandler)

	go func() {
		logger.Info("starting server",
			"addr", addr,
			"auth_enabled", authCfg.Enabled,
			"capture_archive", captureCfg.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func logLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("SKYFIX_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("SKYFIX_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("SKYFIX_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("SKYFIX_AUTH_TOKEN is required when auth is enabled")
		}
		cfg.PublicPrefixes = splitList(os.Getenv("SKYFIX_AUTH_PUBLIC_PREFIXES"))
		logger.Info("auth enabled", "public_prefixes", cfg.PublicPrefixes)
	}

	return cfg, nil
}

func loadLocatorConfig(logger *slog.Logger) locator.Config {
	cfg := locator.DefaultConfig()
	cfg.Workers = runtime.NumCPU()

	if v := os.Getenv("SKYFIX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYFIX_WORKERS value, using default", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	for _, w := range []struct {
		env string
		dst *float64
	}{
		{"SKYFIX_WEIGHT_AZIMUTH", &cfg.Weights.Azimuth},
		{"SKYFIX_WEIGHT_ELEVATION", &cfg.Weights.Elevation},
		{"SKYFIX_WEIGHT_INCLINATION", &cfg.Weights.Inclination},
		{"SKYFIX_WEIGHT_INTENSITY", &cfg.Weights.Intensity},
	} {
		v := os.Getenv(w.env)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			logger.Warn("invalid weight, using default", "name", w.env, "value", v, "default", *w.dst)
			continue
		}
		*w.dst = f
	}

	if v := os.Getenv("SKYFIX_MIN_STEP"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= cfg.InitialStep {
			logger.Warn("invalid SKYFIX_MIN_STEP value, using default", "value", v, "default", cfg.MinStep)
		} else {
			cfg.MinStep = f
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn("locator config rejected, using defaults", "error", err)
		cfg = locator.DefaultConfig()
	}

	logger.Info("locator config",
		"workers", cfg.Workers,
		"levels", len(cfg.Levels()),
		"min_step_deg", cfg.MinStep,
		"weights", cfg.Weights,
	)

	return cfg
}

func loadStreamConfig(logger *slog.Logger) stream.Config {
	cfg := stream.DefaultConfig()

	if v := os.Getenv("SKYFIX_STREAM_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYFIX_STREAM_MAX_CONCURRENT value, using default", "value", v, "default", cfg.MaxConcurrentPerIP)
		} else {
			cfg.MaxConcurrentPerIP = n
		}
	}

	if v := os.Getenv("SKYFIX_STREAM_KEEPALIVE_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYFIX_STREAM_KEEPALIVE_INTERVAL value, using default", "value", v, "default", cfg.KeepaliveInterval.Seconds())
		} else {
			cfg.KeepaliveInterval = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("SKYFIX_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SKYFIX_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	logger.Info("stream config",
		"max_concurrent_per_ip", cfg.MaxConcurrentPerIP,
		"keepalive_interval_seconds", cfg.KeepaliveInterval.Seconds(),
		"trust_proxy", cfg.TrustProxy,
	)

	return cfg
}

type captureConfig struct {
	Enabled  bool
	Dir      string
	MaxFiles int
}

func loadCaptureConfig(logger *slog.Logger) captureConfig {
	cfg := captureConfig{
		Enabled:  true,
		Dir:      "/tmp/skyfix/captures",
		MaxFiles: 100,
	}

	if v := os.Getenv("SKYFIX_CAPTURE_ARCHIVE"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SKYFIX_CAPTURE_ARCHIVE value, keeping archive enabled", "value", v)
		} else {
			cfg.Enabled = enabled
		}
	}

	if v := os.Getenv("SKYFIX_CAPTURE_DIR"); v != "" {
		cfg.Dir = v
	}

	if v := os.Getenv("SKYFIX_CAPTURE_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYFIX_CAPTURE_MAX_FILES value, using default", "value", v, "default", cfg.MaxFiles)
		} else {
			cfg.MaxFiles = n
		}
	}

	logger.Info("capture config",
		"enabled", cfg.Enabled,
		"dir", cfg.Dir,
		"max_files", cfg.MaxFiles,
	)

	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
