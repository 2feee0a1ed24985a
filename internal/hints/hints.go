// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-lesson2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForCompilerNotFound returns hints for a missing LaTeX toolchain.
// Suggests the lightest install for the current environment.
func ForCompilerNotFound() string {
	hints := []string{
		"install tectonic (single binary, downloads packages on demand) or texlive (provides pdflatex)",
	}

	if IsInContainer() {
		hints = append(hints, "in Docker, add the engine to the image and keep its binary on PATH")
	} else {
		hints = append(hints, "set LATEX_COMPILER to a binary path if the engine is installed outside PATH")
	}

	return formatHints(hints)
}

// ForMissingPackages returns hints for pdflatex runs that fail on absent
// .sty files. Tectonic fetches packages itself, so this only concerns
// texlive installs.
func ForMissingPackages() string {
	return format("pdflatex needs amsmath, geometry, parskip, and fancyhdr; install texlive-latex-recommended")
}

// ForTimeout returns a hint about raising the compile budget for large lessons.
func ForTimeout() string {
	return format("for large lessons, raise COMPILE_TIMEOUT or compiler.timeoutSeconds")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/lesson2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/lesson2pdf) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/lesson2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForDefaultSecret returns the hint shown when the placeholder API secret
// is still active.
func ForDefaultSecret() string {
	return format("set API_SECRET or auth.secret before exposing the server")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
