package lesson2pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-lesson2pdf/internal/fileutil"
)

// versionProbeTimeout bounds the --version check run during detection.
const versionProbeTimeout = 5 * time.Second

// DetectCompiler probes the supported engines in preference order and
// returns a Compiler backed by the first one present on PATH that answers
// --version.
func DetectCompiler(ctx context.Context) (Compiler, error) {
	return detectCompiler(ctx, execRunner{}, exec.LookPath)
}

// detectCompiler is the injectable core of DetectCompiler.
func detectCompiler(ctx context.Context, runner commandRunner, lookPath func(string) (string, error)) (*latexCompiler, error) {
	var probeErrs []error
	for _, engine := range supportedEngines {
		path, err := lookPath(engine.name)
		if err != nil {
			probeErrs = append(probeErrs, fmt.Errorf("%s: %w", engine.name, err))
			continue
		}
		version, err := probeVersion(ctx, runner, path)
		if err != nil {
			probeErrs = append(probeErrs, err)
			continue
		}
		return &latexCompiler{
			info:   CompilerInfo{Name: engine.name, Path: path, Version: version},
			argsFn: engine.args,
			runner: runner,
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoCompiler, errors.Join(probeErrs...))
}

// ResolveCompiler maps an operator-facing selector to a Compiler. "auto" or
// empty detects the preferred engine, a bare engine name selects that engine
// from PATH, and a path selects the binary directly with its flavor inferred
// from the file name.
func ResolveCompiler(ctx context.Context, selector string) (Compiler, error) {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "" || selector == "auto":
		return DetectCompiler(ctx)
	case fileutil.IsFilePath(selector):
		return newCompilerAt(ctx, execRunner{}, selector)
	default:
		return newNamedCompiler(ctx, execRunner{}, selector)
	}
}

// newNamedCompiler selects a supported engine by name from PATH.
func newNamedCompiler(ctx context.Context, runner commandRunner, name string) (*latexCompiler, error) {
	engine, ok := engineByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported engine %q", ErrNoCompiler, name)
	}
	path, err := exec.LookPath(engine.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCompiler, err)
	}
	version, err := probeVersion(ctx, runner, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCompiler, err)
	}
	return &latexCompiler{
		info:   CompilerInfo{Name: engine.name, Path: path, Version: version},
		argsFn: engine.args,
		runner: runner,
	}, nil
}

// newCompilerAt builds a Compiler for the engine binary at path. The flavor
// is inferred from the executable name; unknown binaries are driven with
// pdflatex-style arguments.
func newCompilerAt(ctx context.Context, runner commandRunner, path string) (*latexCompiler, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".exe")
	engine, ok := engineByName(base)
	if !ok {
		engine = supportedEngines[len(supportedEngines)-1]
	}
	version, err := probeVersion(ctx, runner, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCompiler, err)
	}
	return &latexCompiler{
		info:   CompilerInfo{Name: base, Path: path, Version: version},
		argsFn: engine.args,
		runner: runner,
	}, nil
}

// engineByName finds a supported engine spec.
func engineByName(name string) (engineSpec, bool) {
	for _, engine := range supportedEngines {
		if engine.name == name {
			return engine, true
		}
	}
	return engineSpec{}, false
}

// probeVersion runs the engine's --version and returns the first output
// line, which identifies both engine and release.
func probeVersion(ctx context.Context, runner commandRunner, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	output, err := runner.Run(ctx, "", path, "--version")
	if err != nil {
		return "", fmt.Errorf("probing %s --version: %w", filepath.Base(path), err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}

// autoCompiler defers engine detection to first use so that New stays cheap
// and tests can swap in their own Compiler without a toolchain installed.
// Detection runs once; its outcome is reused for the process lifetime.
type autoCompiler struct {
	once     sync.Once
	delegate Compiler
	err      error
}

// Compile-time interface implementation checks
var (
	_ Compiler     = (*autoCompiler)(nil)
	_ infoReporter = (*autoCompiler)(nil)
)

func (a *autoCompiler) detect(ctx context.Context) error {
	a.once.Do(func() {
		a.delegate, a.err = DetectCompiler(ctx)
	})
	return a.err
}

func (a *autoCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	if err := a.detect(ctx); err != nil {
		return nil, err
	}
	return a.delegate.Compile(ctx, source)
}

func (a *autoCompiler) Info(ctx context.Context) (CompilerInfo, error) {
	if err := a.detect(ctx); err != nil {
		return CompilerInfo{}, err
	}
	if ip, ok := a.delegate.(infoReporter); ok {
		return ip.Info(ctx)
	}
	return CompilerInfo{}, nil
}
