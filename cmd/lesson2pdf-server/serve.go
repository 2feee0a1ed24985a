package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
	"github.com/alnah/go-lesson2pdf/internal/config"
	"github.com/alnah/go-lesson2pdf/internal/hints"
	"github.com/alnah/go-lesson2pdf/internal/httpapi"
	"github.com/alnah/go-lesson2pdf/internal/logger"
	"github.com/alnah/go-lesson2pdf/internal/yamlutil"
)

// Sentinel errors for server startup and shutdown.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrServe         = errors.New("server failed")
)

const (
	// shutdownGrace bounds how long in-flight compilations may finish
	// after a termination signal.
	shutdownGrace = 10 * time.Second

	// readHeaderTimeout bounds slow-header clients before the body
	// size limit can take over.
	readHeaderTimeout = 5 * time.Second
)

// resolveConfig builds the effective configuration.
// Precedence: CLI flags > environment variables > config file > defaults.
func resolveConfig(flags *serveFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	configPath := flags.common.config
	if configPath == "" {
		configPath = env.ConfigPath
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound([]string{configPath}))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override everything else.
func mergeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.port != 0 {
		cfg.Server.Port = flags.port
	}
	if flags.common.debug {
		cfg.Log.Debug = true
	}
}

// runServe starts the HTTP server and blocks until ctx is canceled or the
// listener fails. A canceled ctx triggers graceful shutdown.
func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// Sync flushes buffered entries; its error is unactionable at exit.
	defer func() { _ = log.Sync() }()

	if cfg.Log.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Resolve the engine once at startup so a missing toolchain fails fast
	// instead of surfacing on the first request.
	compiler, err := lesson2pdf.ResolveCompiler(ctx, cfg.Compiler.Engine)
	if err != nil {
		return fmt.Errorf("resolving LaTeX compiler: %w%s", err, hints.ForCompilerNotFound())
	}

	svc := lesson2pdf.New(
		lesson2pdf.WithCompiler(compiler),
		lesson2pdf.WithTimeout(cfg.Compiler.Timeout()),
		lesson2pdf.WithMaxConcurrent(cfg.Compiler.MaxConcurrent),
		lesson2pdf.WithLogger(log),
	)

	// Resolved compilers always report their probe results.
	info, _ := svc.CompilerInfo(ctx)
	if info.Name == "pdflatex" {
		// Tectonic fetches packages itself; a TeX Live install may not
		// carry everything the lesson template uses.
		log.Info("pdflatex selected" + hints.ForMissingPackages())
	}

	api := httpapi.NewServer(svc, log, httpapi.Options{
		Secret: cfg.Auth.Secret,
		Limits: lesson2pdf.Limits{
			MaxBytes:     cfg.Lessons.MaxContentLength,
			MaxExercises: cfg.Lessons.MaxExercises,
		},
		Debug:          cfg.Log.Debug,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if cfg.Auth.Secret == config.DefaultAPISecret {
		log.Warn("API secret is the default placeholder" + hints.ForDefaultSecret())
	}

	log.Info("server starting",
		zap.String("version", Version),
		zap.String("addr", addr),
		zap.String("compiler", info.Name),
		zap.String("compiler_version", info.Version),
		zap.Int("max_exercises", cfg.Lessons.MaxExercises),
		zap.Int64("max_content_length", cfg.Lessons.MaxContentLength),
		zap.Duration("compile_timeout", cfg.Compiler.Timeout()),
		zap.Int("compile_slots", lesson2pdf.ResolveCompileSlots(cfg.Compiler.MaxConcurrent)),
		zap.String("api_secret", config.MaskSecret(cfg.Auth.Secret)),
		zap.Bool("debug", cfg.Log.Debug),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", zap.Duration("grace", shutdownGrace))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: shutdown: %v", ErrServe, err)
		}
		log.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrServe, err)
	}
}

// printConfigYAML writes the effective configuration as YAML with the
// secret masked.
func printConfigYAML(w io.Writer, cfg *config.Config) error {
	masked := *cfg
	masked.Auth.Secret = config.MaskSecret(cfg.Auth.Secret)

	out, err := yamlutil.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	_, err = w.Write(out)
	return err
}
