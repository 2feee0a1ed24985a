package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
)

// handleConvert decodes a lesson, generates its PDF, and streams the bytes
// back as a download.
func (s *Server) handleConvert(c *gin.Context) {
	if c.ContentType() != "application/json" {
		writeError(c, http.StatusBadRequest, lesson2pdf.CodeMalformedInput, "Content-Type must be application/json")
		return
	}

	// Declared length is checked up front so oversized uploads fail before
	// any bytes are read; DecodeLesson re-checks the actual size.
	if c.Request.ContentLength > s.limits.MaxBytes {
		writeError(c, http.StatusBadRequest, lesson2pdf.CodePayloadTooLarge, "request body exceeds the size limit")
		return
	}

	lesson, err := lesson2pdf.DecodeLesson(c.Request.Body, s.limits)
	if err != nil {
		s.writeLessonError(c, err)
		return
	}

	pdf, err := s.svc.Generate(c.Request.Context(), lesson)
	if err != nil {
		s.writeLessonError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lesson.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// handleHealth reports service liveness and which engine backs it. The
// endpoint always answers 200; a missing toolchain degrades the status
// rather than failing the probe, since the HTTP surface itself is up.
func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	compiler := "unavailable"

	info, err := s.svc.CompilerInfo(c.Request.Context())
	if err != nil {
		status = "degraded"
	} else {
		compiler = describeCompiler(info)
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "compiler": compiler})
}

// describeCompiler renders engine info for the health body.
func describeCompiler(info lesson2pdf.CompilerInfo) string {
	switch {
	case info.Version != "":
		return info.Version
	case info.Name != "":
		return info.Name
	default:
		return "unknown"
	}
}
