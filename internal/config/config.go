// Package config loads and validates server configuration from YAML files.
// Defaults are safe for local use; production deployments override at least
// the API secret. Precedence is applied by the caller: CLI flags > env vars
// > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-lesson2pdf/internal/fileutil"
	"github.com/alnah/go-lesson2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits guard against abusive configuration values.
const (
	MaxSecretLength = 128  // Bearer token
	MaxEngineLength = 256  // Engine name or binary path
	MaxOriginLength = 2048 // Browser URL limit
)

// Default configuration values. DefaultAPISecret is a documented placeholder
// and must be overridden in production.
const (
	DefaultPort             = 8080
	DefaultAPISecret        = "default_secret"
	DefaultMaxExercises     = 50
	DefaultMaxContentLength = 1 << 20
	DefaultTimeoutSeconds   = 30
	DefaultEngine           = "auto"
	DefaultLogLevel         = "info"
)

// Config holds all configuration for the lesson PDF server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Lessons  LessonConfig   `yaml:"lessons"`
	Compiler CompilerConfig `yaml:"compiler"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines HTTP listener options.
type ServerConfig struct {
	Port           int      `yaml:"port"`           // Listen port (default 8080)
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS origins (empty = CORS disabled)
}

// AuthConfig defines bearer token checking for POST /convert.
type AuthConfig struct {
	Secret string `yaml:"secret"` // Bearer token (default is an insecure placeholder)
}

// LessonConfig bounds accepted lesson payloads.
type LessonConfig struct {
	MaxExercises     int   `yaml:"maxExercises"`     // Exercises accepted per lesson
	MaxContentLength int64 `yaml:"maxContentLength"` // Request body cap in bytes
}

// CompilerConfig defines LaTeX engine selection and limits.
type CompilerConfig struct {
	Engine         string `yaml:"engine"`         // "auto", engine name, or binary path
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // Per-compile wall-clock budget
	MaxConcurrent  int    `yaml:"maxConcurrent"`  // 0 = derive from CPU count
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Debug bool   `yaml:"debug"` // Richer error bodies and development logging
}

// Timeout returns the per-compile budget as a duration.
func (c CompilerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks ranges and enumerations after all sources are merged.
// Called by LoadConfig, and again by the server once flags and environment
// overrides are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: must be between 1 and 65535, got %d", c.Server.Port)
	}
	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxOriginLength); err != nil {
			return err
		}
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("server.allowedOrigins[%d]: invalid origin %q (must be * or start with http:// or https://)", i, origin)
		}
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret: cannot be empty")
	}
	if err := validateFieldLength("auth.secret", c.Auth.Secret, MaxSecretLength); err != nil {
		return err
	}

	if c.Lessons.MaxExercises < 1 || c.Lessons.MaxExercises > 10000 {
		return fmt.Errorf("lessons.maxExercises: must be between 1 and 10000, got %d", c.Lessons.MaxExercises)
	}
	if c.Lessons.MaxContentLength < 1024 {
		return fmt.Errorf("lessons.maxContentLength: must be at least 1024 bytes, got %d", c.Lessons.MaxContentLength)
	}

	if err := validateFieldLength("compiler.engine", c.Compiler.Engine, MaxEngineLength); err != nil {
		return err
	}
	if c.Compiler.Engine != "" && !fileutil.IsFilePath(c.Compiler.Engine) {
		switch c.Compiler.Engine {
		case "auto", "tectonic", "pdflatex":
			// valid
		default:
			return fmt.Errorf("compiler.engine: unknown engine %q (must be auto, tectonic, pdflatex, or a binary path)", c.Compiler.Engine)
		}
	}
	if c.Compiler.TimeoutSeconds < 1 || c.Compiler.TimeoutSeconds > 3600 {
		return fmt.Errorf("compiler.timeoutSeconds: must be between 1 and 3600, got %d", c.Compiler.TimeoutSeconds)
	}
	if c.Compiler.MaxConcurrent < 0 || c.Compiler.MaxConcurrent > 64 {
		return fmt.Errorf("compiler.maxConcurrent: must be between 0 and 64, got %d", c.Compiler.MaxConcurrent)
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
			// valid
		default:
			return fmt.Errorf("log.level: invalid value %q (must be debug, info, warn, or error)", c.Log.Level)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort},
		Auth:   AuthConfig{Secret: DefaultAPISecret},
		Lessons: LessonConfig{
			MaxExercises:     DefaultMaxExercises,
			MaxContentLength: DefaultMaxContentLength,
		},
		Compiler: CompilerConfig{
			Engine:         DefaultEngine,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig loads configuration from a file path or config name, merged
// over the defaults so absent keys keep their documented values.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/lesson2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "lesson2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// MaskSecret hides all but the last four characters of a secret so startup
// logs can confirm which token is active without exposing it.
func MaskSecret(s string) string {
	if len(s) > 4 {
		return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
	}
	return "****"
}
