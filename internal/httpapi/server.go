// Package httpapi exposes the lesson-to-PDF pipeline over HTTP: a public
// health probe and a bearer-protected convert endpoint.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lesson2pdf "github.com/alnah/go-lesson2pdf"
)

// Options configures the HTTP API.
type Options struct {
	Secret         string            // Bearer token required by POST /convert
	Limits         lesson2pdf.Limits // Request validation limits; zero fields use defaults
	Debug          bool              // Richer diagnostics in error bodies
	AllowedOrigins []string          // CORS origins; empty disables CORS entirely
}

// Server wires the lesson service into gin handlers.
type Server struct {
	svc    *lesson2pdf.Service
	log    *zap.Logger
	opts   Options
	limits lesson2pdf.Limits
}

// NewServer creates the HTTP API around svc. A nil logger disables logging.
func NewServer(svc *lesson2pdf.Service, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	limits := opts.Limits
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = lesson2pdf.DefaultMaxContentLength
	}
	if limits.MaxExercises <= 0 {
		limits.MaxExercises = lesson2pdf.DefaultMaxExercises
	}

	return &Server{svc: svc, log: log, opts: opts, limits: limits}
}

// Router builds the gin engine with the full middleware chain. The caller
// owns gin's global mode (gin.SetMode).
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(s.log))
	router.Use(s.recoveryMiddleware())

	if len(s.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Authorization", "Content-Type"},
		}))
	}

	// Public
	router.GET("/health", s.handleHealth)

	// Protected
	router.POST("/convert", s.requireAuth(), s.handleConvert)

	return router
}
