package hints

// Notes:
// - ForCompilerNotFound tests cannot use t.Parallel() because they modify
//   the package-level IsInContainer variable.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"strings"
	"testing"
)

func TestForCompilerNotFound_OnHost(t *testing.T) {
	// Save and restore IsInContainer (not parallel-safe, see package notes)
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	hint := ForCompilerNotFound()

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint = %q, want the standard prefix", hint)
	}
	if !strings.Contains(hint, "tectonic") {
		t.Error("expected tectonic install suggestion")
	}
	if !strings.Contains(hint, "LATEX_COMPILER") {
		t.Error("expected LATEX_COMPILER suggestion outside containers")
	}
}

func TestForCompilerNotFound_InContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	hint := ForCompilerNotFound()

	if !strings.Contains(hint, "Docker") {
		t.Error("expected Docker-specific suggestion in a container")
	}
	if strings.Contains(hint, "LATEX_COMPILER") {
		t.Error("host-only suggestion should not appear in a container")
	}
}

func TestForMissingPackages(t *testing.T) {
	t.Parallel()

	hint := ForMissingPackages()

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint = %q, want the standard prefix", hint)
	}
	if !strings.Contains(hint, "texlive-latex-recommended") {
		t.Error("expected the texlive package suggestion")
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()

	if !strings.Contains(hint, "COMPILE_TIMEOUT") {
		t.Error("expected the COMPILE_TIMEOUT suggestion")
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		searchedPaths []string
		wantContains  []string
		wantAbsent    string
	}{
		{
			name:          "suggests user config path when searched",
			searchedPaths: []string{"./server.yaml", "/home/u/.config/lesson2pdf/server.yaml"},
			wantContains:  []string{"--config", "/home/u/.config/lesson2pdf/server.yaml"},
		},
		{
			name:          "flag only when no user path searched",
			searchedPaths: []string{"./server.yaml"},
			wantContains:  []string{"--config"},
			wantAbsent:    "create",
		},
		{
			name:          "nil paths",
			searchedPaths: nil,
			wantContains:  []string{"--config"},
			wantAbsent:    "create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.searchedPaths)

			for _, want := range tt.wantContains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint = %q, want containing %q", hint, want)
				}
			}
			if tt.wantAbsent != "" && strings.Contains(hint, tt.wantAbsent) {
				t.Errorf("hint = %q, should not contain %q", hint, tt.wantAbsent)
			}
		})
	}
}

func TestForDefaultSecret(t *testing.T) {
	t.Parallel()

	hint := ForDefaultSecret()

	if !strings.Contains(hint, "API_SECRET") {
		t.Error("expected the API_SECRET suggestion")
	}
	if !strings.Contains(hint, "auth.secret") {
		t.Error("expected the auth.secret suggestion")
	}
}

func TestFormat_Empty(t *testing.T) {
	t.Parallel()

	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}

func TestFormatHints_JoinsWithSemicolon(t *testing.T) {
	t.Parallel()

	got := formatHints([]string{"first", "second"})

	if got != "\n  hint: first; second" {
		t.Errorf("formatHints() = %q", got)
	}
}
