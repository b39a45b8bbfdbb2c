package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbenaiss/whatsapp-session/session"
)

// statusFor maps session errors to HTTP status codes
func statusFor(err error) int {
	var transportErr *session.TransportError
	switch {
	case errors.Is(err, session.ErrInvalidRecipient), errors.Is(err, session.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrUnsupported):
		return http.StatusNotImplemented
	case session.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, action string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("Request failed", "action", action, "error", err)
	}
	c.JSON(code, Response{
		Success: false,
		Message: fmt.Sprintf("Failed to %s: %v", action, err),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
