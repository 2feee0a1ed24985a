package lesson2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-lesson2pdf/internal/fileutil"
	"github.com/alnah/go-lesson2pdf/internal/process"
)

// Compiler turns LaTeX source into PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// CompilerInfo describes a usable LaTeX engine.
type CompilerInfo struct {
	Name    string // engine name, e.g. "tectonic"
	Path    string // resolved binary path
	Version string // first line of --version output
}

// infoReporter is implemented by compilers that can describe their engine.
// The health endpoint reports the description when available.
type infoReporter interface {
	Info(ctx context.Context) (CompilerInfo, error)
}

// Fixed file names inside each scoped working directory. Engines derive the
// output name from the input name.
const (
	sourceFileName = "lesson.tex"
	outputFileName = "lesson.pdf"
)

// maxCapturedOutput bounds the combined compiler output kept in memory.
// LaTeX logs grow without limit on pathological inputs and only the tail
// carries the error report.
const maxCapturedOutput = 64 << 10

// engineSpec describes how to drive one supported LaTeX engine.
type engineSpec struct {
	name string
	args func(outDir, texPath string) []string
}

// supportedEngines lists the engines probed during detection, in preference
// order. Tectonic handles rerun passes inside a single process; pdflatex is
// the portable fallback and runs once in nonstop mode.
var supportedEngines = []engineSpec{
	{
		name: "tectonic",
		args: func(outDir, texPath string) []string {
			return []string{"-o", outDir, texPath}
		},
	},
	{
		name: "pdflatex",
		args: func(outDir, texPath string) []string {
			return []string{"-interaction=nonstopmode", "-output-directory", outDir, texPath}
		},
	},
}

// commandRunner abstracts subprocess execution to enable testing without a
// LaTeX toolchain installed.
type commandRunner interface {
	// Run executes name with args in workDir and returns the combined
	// stdout and stderr, bounded to maxCapturedOutput. LaTeX engines
	// report errors on stdout, so the streams are captured together.
	Run(ctx context.Context, workDir, name string, args ...string) ([]byte, error)
}

// Compile-time interface implementation checks
var (
	_ Compiler      = (*latexCompiler)(nil)
	_ infoReporter  = (*latexCompiler)(nil)
	_ commandRunner = (*execRunner)(nil)
)

// execRunner implements commandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary path comes from engine detection or operator configuration
	cmd.Dir = workDir

	output := newBoundedBuffer(maxCapturedOutput)
	cmd.Stdout = output
	cmd.Stderr = output

	// Run the engine in its own process group so that a timeout kills any
	// helper processes it spawned, not just the leader.
	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	err := cmd.Run()
	return output.Bytes(), err
}

// latexCompiler runs a concrete LaTeX engine as a subprocess, exactly one
// per Compile call.
type latexCompiler struct {
	info   CompilerInfo
	argsFn func(outDir, texPath string) []string
	runner commandRunner
}

// Compile writes source into a fresh scoped working directory, runs the
// engine against it, and reads back the produced PDF. The directory is
// removed on every return path, including timeout.
func (c *latexCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workDir, cleanup, err := fileutil.MakeWorkDir("lesson2pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	defer cleanup()

	texPath := filepath.Join(workDir, sourceFileName)
	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("writing source file: %w", err)
	}

	output, runErr := c.runner.Run(ctx, workDir, c.info.Path, c.argsFn(workDir, texPath)...)

	// Classify by context state first: a killed engine also reports a
	// generic exit error, which would be misread as a compilation failure.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, &CompileError{Kind: KindTimeout, err: context.DeadlineExceeded}
		}
		return nil, ctxErr
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &CompileError{
				Kind:       KindCompilation,
				Diagnostic: diagnosticTail(output, workDir),
				err:        runErr,
			}
		}
		return nil, &CompileError{Kind: KindUnavailable, err: runErr}
	}

	pdf, err := os.ReadFile(filepath.Join(workDir, outputFileName)) // #nosec G304 -- path is inside the scoped working directory
	if err != nil {
		return nil, &CompileError{
			Kind:       KindCompilation,
			Diagnostic: diagnosticTail(output, workDir),
			err:        fmt.Errorf("engine exited 0 without producing %s", outputFileName),
		}
	}

	return pdf, nil
}

// Info returns the engine description captured at detection time.
func (c *latexCompiler) Info(_ context.Context) (CompilerInfo, error) {
	return c.info, nil
}

// diagnosticTailSize bounds the diagnostic attached to a CompileError.
const diagnosticTailSize = 4 << 10

// diagnosticTail extracts the end of the captured engine output with
// working directory paths scrubbed, so error responses never expose
// file-system layout.
func diagnosticTail(output []byte, workDir string) string {
	s := strings.ReplaceAll(string(output), workDir, "")
	s = strings.TrimSpace(s)
	if len(s) > diagnosticTailSize {
		s = s[len(s)-diagnosticTailSize:]
	}
	return strings.ToValidUTF8(s, "")
}

// boundedBuffer keeps the last max bytes written, discarding from the front
// on overflow. Write never fails, so a chatty engine cannot abort capture.
type boundedBuffer struct {
	buf bytes.Buffer
	max int
}

func newBoundedBuffer(max int) *boundedBuffer {
	return &boundedBuffer{max: max}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= b.max {
		b.buf.Reset()
		b.buf.Write(p[n-b.max:])
		return n, nil
	}
	if over := b.buf.Len() + n - b.max; over > 0 {
		b.buf.Next(over)
	}
	b.buf.Write(p)
	return n, nil
}

func (b *boundedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
