package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// probePrefix holds probes and metrics, which are never access-logged.
const probePrefix = "/-/"

// Logging writes one access line per request, at warn for 4xx and error
// for 5xx.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return LoggingWithSkipPaths(logger, nil)
}

// LoggingWithSkipPaths is Logging that also skips the exact paths listed.
// Lines go to the request's context logger so they carry the IDs set by
// RequestID, CorrelationID and Session; logger is the fallback.
func LoggingWithSkipPaths(logger *slog.Logger, skipPaths []string) gin.HandlerFunc {
	skip := newPathSet(skipPaths)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip.has(path) || strings.HasPrefix(path, probePrefix) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := make([]slog.Attr, 0, 10)
		attrs = append(attrs,
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)

		if c.Request.URL.RawQuery != "" {
			attrs = append(attrs, slog.String("query", c.Request.URL.RawQuery))
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		accessLogger(c, logger).LogAttrs(c.Request.Context(), levelFor(status), "request completed", attrs...)
	}
}

// accessLogger prefers the context logger. The fallback gets the IDs added
// by hand since it never saw the ID middleware.
func accessLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if fallback != nil {
		fallback = fallback.With(
			slog.String("request_id", GetRequestID(c)),
			slog.String("correlation_id", GetCorrelationID(c)),
		)
	}

	return logging.FromContextOr(c.Request.Context(), fallback)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
