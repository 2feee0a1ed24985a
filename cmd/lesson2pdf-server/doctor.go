package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
	"github.com/alnah/go-lesson2pdf/internal/config"
	"github.com/alnah/go-lesson2pdf/internal/fileutil"
	"github.com/alnah/go-lesson2pdf/internal/hints"
)

// compilerProbeTimeout bounds the --version probes run by the doctor.
const compilerProbeTimeout = 15 * time.Second

// lowTimeoutFloor marks compile budgets likely too small for real lessons.
const lowTimeoutFloor = 5

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Compiler compilerInfo `json:"compiler"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// compilerInfo holds LaTeX engine detection results.
type compilerInfo struct {
	Found   bool   `json:"found"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	ForcedEngine  string `json:"latex_compiler,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor checks and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(flags *serveFlags, env *Environment) int {
	// A broken configuration must not stop the diagnosis; fall back to
	// defaults and surface the problem as a warning.
	cfg, cfgErr := resolveConfig(flags, loadEnvConfig())
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	result := runDoctor(cfg, cfgErr)

	if flags.doctorJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, cfgErr error) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:           runtime.GOOS,
			Arch:         runtime.GOARCH,
			ForcedEngine: lookupEnv("LATEX_COMPILER"),
		},
	}

	if cfgErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Configuration not usable, checked with defaults: %v", cfgErr))
	}

	checkCompiler(result, cfg)
	checkEnvironment(result)
	checkSystem(result)
	checkConfig(result, cfg)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkCompiler probes the configured LaTeX engine.
func checkCompiler(result *doctorResult, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), compilerProbeTimeout)
	defer cancel()

	compiler, err := lesson2pdf.ResolveCompiler(ctx, cfg.Compiler.Engine)
	if err != nil {
		result.Errors = append(result.Errors,
			"LaTeX compiler not found. Install tectonic or TeX Live, or set LATEX_COMPILER")
		return
	}

	info, err := lesson2pdf.New(lesson2pdf.WithCompiler(compiler)).CompilerInfo(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get compiler version: %v", err))
	}

	result.Compiler.Found = true
	result.Compiler.Name = info.Name
	result.Compiler.Path = info.Path
	result.Compiler.Version = info.Version
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("LESSON2PDF_CONTAINER") == "1" {
		return true, "LESSON2PDF_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Compilations need a writable temp directory for working directories
	if _, cleanup, err := fileutil.WriteTempFile("doctor probe", ".tex"); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	} else {
		cleanup()
		result.System.TempWritable = true
	}
}

// checkConfig flags configuration values that work but invite trouble.
func checkConfig(result *doctorResult, cfg *config.Config) {
	if cfg.Auth.Secret == config.DefaultAPISecret {
		result.Warnings = append(result.Warnings,
			"API secret is the default placeholder. Set API_SECRET before exposing the server")
	}

	if cfg.Compiler.TimeoutSeconds < lowTimeoutFloor {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Compile timeout is %ds%s", cfg.Compiler.TimeoutSeconds, hints.ForTimeout()))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "lesson2pdf-server doctor")
	fmt.Fprintln(w)

	// Compiler section
	fmt.Fprintln(w, "LaTeX compiler")
	if r.Compiler.Found {
		fmt.Fprintf(w, "  [OK] Found %s at %s\n", r.Compiler.Name, r.Compiler.Path)
		if r.Compiler.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Compiler.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.ForcedEngine != "" {
		fmt.Fprintf(w, "  [OK] LATEX_COMPILER: %s\n", r.Env.ForcedEngine)
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to serve")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
