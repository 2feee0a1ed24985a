package main

import (
	"errors"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
	"github.com/alnah/go-lesson2pdf/internal/config"
)

// Exit codes for lesson2pdf-server.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Clean shutdown or informational command
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags or configuration
	ExitCompiler = 3 // No usable LaTeX compiler
	ExitServer   = 4 // Listen or serve failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 3)
	if errors.Is(err, lesson2pdf.ErrNoCompiler) {
		return ExitCompiler
	}

	// Serve errors (exit 4)
	if errors.Is(err, ErrServe) {
		return ExitServer
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) {
		return ExitUsage
	}

	return ExitGeneral
}
