package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// Timeout gives each request a deadline of d. Handlers run inline and must
// watch their context; one that overruns without writing gets a 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return TimeoutWithSkipPaths(d, nil)
}

// TimeoutWithSkipPaths is Timeout except for the exact paths listed, which
// run without a deadline.
func TimeoutWithSkipPaths(d time.Duration, skipPaths []string) gin.HandlerFunc {
	skip := newPathSet(skipPaths)

	return func(c *gin.Context) {
		if skip.has(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logging.FromContext(ctx).Warn("request deadline exceeded",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("timeout", d),
			slog.Bool("responded", c.Writer.Written()),
		)

		if !c.Writer.Written() {
			dto.AbortWithErrorCode(c, dto.ErrorCodeTimeout, "request timeout exceeded")
		}
	}
}

// pathSet matches exact request paths.
type pathSet map[string]struct{}

func newPathSet(paths []string) pathSet {
	set := make(pathSet, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	return set
}

func (s pathSet) has(path string) bool {
	_, ok := s[path]
	return ok
}
