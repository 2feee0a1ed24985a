package httpapi

// Notes:
// - Handlers are exercised through the full router so middleware ordering is
//   covered for free.
// - A stub compiler keeps tests hermetic; no LaTeX toolchain is required.
// - Access log output is not asserted. These are acceptable gaps: we test
//   observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Test doubles and helpers
// ---------------------------------------------------------------------------

const testSecret = "unit-test-secret"

const minimalLesson = `{"topic_title":"Algebra","exercises":[{"question":"Solve for x"}]}`

type stubCompiler struct {
	called bool
	source string
	pdf    []byte
	err    error
}

func (s *stubCompiler) Compile(_ context.Context, source string) ([]byte, error) {
	s.called = true
	s.source = source
	if s.err != nil {
		return nil, s.err
	}
	return s.pdf, nil
}

// infoStub additionally reports engine detail, like the real auto compiler.
type infoStub struct {
	stubCompiler
	info    lesson2pdf.CompilerInfo
	infoErr error
}

func (s *infoStub) Info(context.Context) (lesson2pdf.CompilerInfo, error) {
	return s.info, s.infoErr
}

func newTestRouter(t *testing.T, compiler lesson2pdf.Compiler, opts Options) *gin.Engine {
	t.Helper()

	if opts.Secret == "" {
		opts.Secret = testSecret
	}
	svc := lesson2pdf.New(lesson2pdf.WithCompiler(compiler))
	return NewServer(svc, zap.NewNop(), opts).Router()
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// newConvertRequest builds a well-formed authenticated POST /convert.
func newConvertRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testSecret)
	return req
}

// decodeErrorBody parses the standard JSON error envelope.
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body %q is not valid JSON: %v", w.Body.String(), err)
	}
	return body
}

// ---------------------------------------------------------------------------
// Server construction
// ---------------------------------------------------------------------------

func TestNewServer_FillsLimitDefaults(t *testing.T) {
	t.Parallel()

	svc := lesson2pdf.New(lesson2pdf.WithCompiler(&stubCompiler{}))
	s := NewServer(svc, nil, Options{Secret: testSecret})

	if s.limits.MaxBytes != lesson2pdf.DefaultMaxContentLength {
		t.Errorf("limits.MaxBytes = %d, want %d", s.limits.MaxBytes, lesson2pdf.DefaultMaxContentLength)
	}
	if s.limits.MaxExercises != lesson2pdf.DefaultMaxExercises {
		t.Errorf("limits.MaxExercises = %d, want %d", s.limits.MaxExercises, lesson2pdf.DefaultMaxExercises)
	}
	if s.log == nil {
		t.Error("nil logger should be replaced with a nop logger")
	}
}

func TestNewServer_KeepsExplicitLimits(t *testing.T) {
	t.Parallel()

	svc := lesson2pdf.New(lesson2pdf.WithCompiler(&stubCompiler{}))
	s := NewServer(svc, nil, Options{
		Secret: testSecret,
		Limits: lesson2pdf.Limits{MaxBytes: 2048, MaxExercises: 5},
	})

	if s.limits.MaxBytes != 2048 {
		t.Errorf("limits.MaxBytes = %d, want 2048", s.limits.MaxBytes)
	}
	if s.limits.MaxExercises != 5 {
		t.Errorf("limits.MaxExercises = %d, want 5", s.limits.MaxExercises)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubCompiler{}, Options{
		AllowedOrigins: []string{"https://app.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := performRequest(router, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubCompiler{}, Options{
		AllowedOrigins: []string{"https://app.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/convert", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := performRequest(router, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRouter_CORSDisabledByDefault(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubCompiler{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")

	w := performRequest(router, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
	}
}
