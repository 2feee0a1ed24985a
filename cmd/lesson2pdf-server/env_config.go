package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-lesson2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container- and CI-friendly overrides without requiring YAML files.
//
// Every variable is accepted under two names: the documented bare name
// (PORT, API_SECRET, ...) and a LESSON2PDF_-prefixed alias that wins when
// both are set. The prefix keeps deployments safe from collisions with
// platform-injected variables.
type envConfig struct {
	ConfigPath string // LESSON2PDF_CONFIG: config file name or path

	Port             int           // PORT: listen port
	Secret           string        // API_SECRET: bearer token
	MaxExercises     int           // MAX_EXERCISES: exercises accepted per lesson
	MaxContentLength int64         // MAX_CONTENT_LENGTH: request body cap in bytes
	Debug            string        // DEBUG: raw value, parsed as bool on apply
	CompileTimeout   time.Duration // COMPILE_TIMEOUT: per-compile budget (Go duration)
	Compiler         string        // LATEX_COMPILER: engine name or binary path
	MaxConcurrent    int           // MAX_CONCURRENT: compile slots (0 = auto)
	AllowedOrigins   string        // ALLOWED_ORIGINS: comma-separated CORS origins
	LogLevel         string        // LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid LESSON2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LESSON2PDF_CONFIG":             true,
	"LESSON2PDF_PORT":               true,
	"LESSON2PDF_API_SECRET":         true,
	"LESSON2PDF_MAX_EXERCISES":      true,
	"LESSON2PDF_MAX_CONTENT_LENGTH": true,
	"LESSON2PDF_DEBUG":              true,
	"LESSON2PDF_COMPILE_TIMEOUT":    true,
	"LESSON2PDF_LATEX_COMPILER":     true,
	"LESSON2PDF_MAX_CONCURRENT":     true,
	"LESSON2PDF_ALLOWED_ORIGINS":    true,
	"LESSON2PDF_LOG_LEVEL":          true,
}

// lookupEnv reads an environment variable, preferring the prefixed alias.
func lookupEnv(name string) string {
	if v := os.Getenv("LESSON2PDF_" + name); v != "" {
		return v
	}
	return os.Getenv(name)
}

// loadEnvConfig reads configuration from environment variables.
// Values that fail to parse are ignored, leaving lower-precedence sources in place.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("LESSON2PDF_CONFIG"),
		Secret:         lookupEnv("API_SECRET"),
		Debug:          lookupEnv("DEBUG"),
		Compiler:       lookupEnv("LATEX_COMPILER"),
		AllowedOrigins: lookupEnv("ALLOWED_ORIGINS"),
		LogLevel:       lookupEnv("LOG_LEVEL"),
	}

	if port := lookupEnv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Port = p
		}
	}

	if max := lookupEnv("MAX_EXERCISES"); max != "" {
		if n, err := strconv.Atoi(max); err == nil && n > 0 {
			cfg.MaxExercises = n
		}
	}

	if max := lookupEnv("MAX_CONTENT_LENGTH"); max != "" {
		if n, err := strconv.ParseInt(max, 10, 64); err == nil && n > 0 {
			cfg.MaxContentLength = n
		}
	}

	if timeout := lookupEnv("COMPILE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.CompileTimeout = d
		}
	}

	if slots := lookupEnv("MAX_CONCURRENT"); slots != "" {
		if n, err := strconv.Atoi(slots); err == nil && n > 0 {
			cfg.MaxConcurrent = n
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized LESSON2PDF_* variables.
// Helps catch typos like LESSON2PDF_API_SECRT instead of LESSON2PDF_API_SECRET.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "LESSON2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override file values; CLI flags are applied later via
// mergeFlags. This ensures: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Port != 0 {
		cfg.Server.Port = env.Port
	}
	if env.Secret != "" {
		cfg.Auth.Secret = env.Secret
	}
	if env.MaxExercises != 0 {
		cfg.Lessons.MaxExercises = env.MaxExercises
	}
	if env.MaxContentLength != 0 {
		cfg.Lessons.MaxContentLength = env.MaxContentLength
	}

	if env.Debug != "" {
		if debug, err := strconv.ParseBool(env.Debug); err == nil {
			cfg.Log.Debug = debug
		}
	}

	if env.CompileTimeout != 0 {
		// Rounded up so sub-second values stay above the validation floor.
		cfg.Compiler.TimeoutSeconds = int((env.CompileTimeout + time.Second - 1) / time.Second)
	}
	if env.Compiler != "" {
		cfg.Compiler.Engine = env.Compiler
	}
	if env.MaxConcurrent != 0 {
		cfg.Compiler.MaxConcurrent = env.MaxConcurrent
	}

	if env.AllowedOrigins != "" {
		cfg.Server.AllowedOrigins = splitOrigins(env.AllowedOrigins)
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
