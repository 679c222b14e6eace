package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// Recovery turns a panic into an INTERNAL_ERROR response and an error log
// with the stack. Install it first so it also guards the other middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithWriter(logger, nil)
}

// RecoveryWithWriter is Recovery that also passes the panic value and stack
// to onPanic when it is non-nil.
func RecoveryWithWriter(logger *slog.Logger, onPanic func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				recovered(c, logger, onPanic, r)
			}
		}()

		c.Next()
	}
}

func recovered(c *gin.Context, logger *slog.Logger, onPanic func(any, []byte), r any) {
	stack := debug.Stack()
	if onPanic != nil {
		onPanic(r, stack)
	}

	logging.FromContextOr(c.Request.Context(), logger).Error("handler panicked",
		slog.Any("panic", r),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("trace_id", dto.GetTraceID(c)),
		slog.String("stack", string(stack)),
	)

	// Headers already went out; the client sees a truncated body.
	if c.Writer.Written() {
		c.Abort()
		return
	}

	dto.AbortWithErrorCode(c, dto.ErrorCodeInternal, "an internal error occurred")
}
