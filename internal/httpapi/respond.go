package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
)

// Error codes for failures that originate in the HTTP layer. Pipeline
// failures reuse the library's validation codes and compile kinds.
const (
	codeAuthError     = "AuthError"
	codeInternalError = "InternalError"
)

// statusClientClosedRequest mirrors nginx's non-standard 499 for requests
// abandoned by the client before a response was written.
const statusClientClosedRequest = 499

// maxDiagnosticChars bounds the diagnostic detail included in production
// error bodies. Debug mode returns the full captured tail.
const maxDiagnosticChars = 512

// writeError sends the standard JSON error body and stops the handler chain.
func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "error": message})
}

// writeLessonError maps pipeline failures onto the HTTP error contract:
// validation to 400, timeout to 504, missing toolchain to 503, rejected
// documents to 500 with a truncated diagnostic, everything else to a
// generic 500.
func (s *Server) writeLessonError(c *gin.Context, err error) {
	var ve *lesson2pdf.ValidationError
	if errors.As(err, &ve) {
		writeError(c, http.StatusBadRequest, ve.Code, ve.Error())
		return
	}

	var ce *lesson2pdf.CompileError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case lesson2pdf.KindTimeout:
			writeError(c, http.StatusGatewayTimeout, string(ce.Kind), "compilation exceeded time limit")
		case lesson2pdf.KindUnavailable:
			writeError(c, http.StatusServiceUnavailable, string(ce.Kind), "no LaTeX compiler is available")
		default:
			s.writeCompilationFailure(c, ce)
		}
		return
	}

	switch {
	case errors.Is(err, lesson2pdf.ErrMissingExercises):
		writeError(c, http.StatusBadRequest, lesson2pdf.CodeMissingExercises, lesson2pdf.ErrMissingExercises.Error())
	case errors.Is(err, lesson2pdf.ErrNoCompiler):
		writeError(c, http.StatusServiceUnavailable, string(lesson2pdf.KindUnavailable), "no LaTeX compiler is available")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, string(lesson2pdf.KindTimeout), "compilation exceeded time limit")
	case errors.Is(err, context.Canceled):
		s.log.Debug("request canceled", zap.String("request_id", requestID(c)))
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		s.log.Error("lesson generation failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		writeError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}

// writeCompilationFailure reports a document the engine rejected, attaching
// as much of the engine log tail as the mode allows.
func (s *Server) writeCompilationFailure(c *gin.Context, ce *lesson2pdf.CompileError) {
	body := gin.H{
		"code":  string(lesson2pdf.KindCompilation),
		"error": "PDF compilation failed",
	}
	if diag := s.clientDiagnostic(ce.Diagnostic); diag != "" {
		body["details"] = diag
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// clientDiagnostic truncates the engine log tail for client consumption.
func (s *Server) clientDiagnostic(diag string) string {
	if s.opts.Debug || len(diag) <= maxDiagnosticChars {
		return diag
	}
	return strings.ToValidUTF8(diag[len(diag)-maxDiagnosticChars:], "")
}
