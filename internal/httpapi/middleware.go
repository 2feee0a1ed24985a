package httpapi

import (
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// requestID returns the ID assigned to the current request.
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// requestIDMiddleware assigns each request an ID, honoring a reasonable one
// supplied by a proxy, and echoes it back in the response headers.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// accessLogMiddleware logs one line per request. Health probes log at debug
// level to keep orchestrator polling out of the main log stream.
func accessLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}

		if c.Request.URL.Path == "/health" {
			log.Debug("http request", fields...)
			return
		}
		log.Info("http request", fields...)
	}
}

// recoveryMiddleware converts panics into generic 500s without leaking
// stack traces or paths to clients.
func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.log.Error("panic recovered",
			zap.String("request_id", requestID(c)),
			zap.Any("panic", rec),
			zap.String("stack", string(debug.Stack())))
		writeError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
	})
}

// requireAuth enforces the static bearer token on protected routes.
// Comparison is constant-time so response timing reveals nothing about the
// secret.
func (s *Server) requireAuth() gin.HandlerFunc {
	secret := []byte(s.opts.Secret)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			s.logAuthFailure(c, "missing or malformed authorization header")
			abortUnauthorized(c)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), secret) != 1 {
			s.logAuthFailure(c, "token mismatch")
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header.
func bearerToken(header string) (string, bool) {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:], true
	}
	return "", false
}

// logAuthFailure records why a request was rejected, never the credential
// itself.
func (s *Server) logAuthFailure(c *gin.Context, reason string) {
	s.log.Debug("auth rejected",
		zap.String("request_id", requestID(c)),
		zap.String("reason", reason))
}

func abortUnauthorized(c *gin.Context) {
	writeError(c, http.StatusUnauthorized, codeAuthError, "missing or invalid bearer token")
}
