//go:build integration

package lesson2pdf

// Notes:
// - Integration tests need a real LaTeX engine (tectonic or pdflatex) on PATH
// - requireCompiler skips instead of failing so the suite stays green on
//   machines without a TeX installation
// - The detected compiler is shared across tests; detection runs once

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"
)

// integrationTimeout bounds one real compilation. The first tectonic run
// may fetch packages, so this is far above the production default.
const integrationTimeout = 120 * time.Second

var (
	detectOnce     sync.Once
	sharedCompiler Compiler
	detectErr      error
)

// requireCompiler detects a LaTeX engine once and skips the test when none
// is installed.
func requireCompiler(t *testing.T) Compiler {
	t.Helper()

	detectOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sharedCompiler, detectErr = DetectCompiler(ctx)
	})
	if detectErr != nil {
		t.Skipf("no LaTeX engine available: %v", detectErr)
	}
	return sharedCompiler
}

// newIntegrationService builds a Service wired to the shared engine.
func newIntegrationService(t *testing.T) *Service {
	t.Helper()
	return New(
		WithCompiler(requireCompiler(t)),
		WithTimeout(integrationTimeout),
	)
}

// hasEngine reports whether any supported engine is on PATH, for tests that
// exercise detection itself.
func hasEngine() bool {
	for _, engine := range supportedEngines {
		if _, err := exec.LookPath(engine.name); err == nil {
			return true
		}
	}
	return false
}
