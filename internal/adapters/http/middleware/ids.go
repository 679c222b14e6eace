// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// Headers carrying request-scoped identifiers. Each one is echoed in the response.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"

	// HeaderSessionID identifies a viewing session. Clients send back the
	// value they received to keep their last-viewed quote.
	HeaderSessionID = "X-Session-ID"
)

// Keys the identifiers are stored under in gin.Context.
const (
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
	ContextKeySessionID     = "session_id"
)

// maxIDLength bounds inbound identifiers; longer values are replaced.
const maxIDLength = 128

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyCorrelationID
	ctxKeySessionID
)

// carriedID is an identifier read from a header, or minted when the header is
// missing, and then copied into the gin context, the request context, the
// context logger and the response headers.
type carriedID struct {
	header  string
	ginKey  string
	ctxKey  ctxKey
	logWith func(context.Context, string) context.Context
}

var (
	requestID     = carriedID{HeaderRequestID, ContextKeyRequestID, ctxKeyRequestID, logging.WithRequestID}
	correlationID = carriedID{HeaderCorrelationID, ContextKeyCorrelationID, ctxKeyCorrelationID, logging.WithCorrelationID}
	sessionID     = carriedID{HeaderSessionID, ContextKeySessionID, ctxKeySessionID, logging.WithSessionID}
)

// RequestID returns middleware that tags each request with an X-Request-ID.
func RequestID() gin.HandlerFunc { return requestID.middleware() }

// CorrelationID returns middleware that propagates X-Correlation-ID. Unlike the
// request ID it is kept across services, so an upstream value is preserved.
func CorrelationID() gin.HandlerFunc { return correlationID.middleware() }

// Session returns middleware that resolves the viewer session from
// X-Session-ID, issuing a new UUID when the client has none yet.
func Session() gin.HandlerFunc { return sessionID.middleware() }

func (k carriedID) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)

		ctx := context.WithValue(c.Request.Context(), k.ctxKey, id)
		c.Request = c.Request.WithContext(k.logWith(ctx, id))

		c.Next()
	}
}

// acceptableID reports whether a client-supplied id is safe to log and echo.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		ch := id[i]
		if ch < '!' || ch > '~' {
			return false
		}
	}

	return true
}

func (k carriedID) fromGin(c *gin.Context) string {
	return c.GetString(k.ginKey)
}

func (k carriedID) fromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(k.ctxKey).(string)

	return id
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string { return requestID.fromGin(c) }

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string { return correlationID.fromGin(c) }

// GetSessionID returns the session ID set by Session, or "".
func GetSessionID(c *gin.Context) string { return sessionID.fromGin(c) }

// RequestIDFromContext returns the request ID carried by ctx. Outbound clients
// forward it to the remote endpoint.
func RequestIDFromContext(ctx context.Context) string { return requestID.fromContext(ctx) }

// CorrelationIDFromContext returns the correlation ID carried by ctx.
func CorrelationIDFromContext(ctx context.Context) string { return correlationID.fromContext(ctx) }

// SessionIDFromContext returns the session ID carried by ctx.
func SessionIDFromContext(ctx context.Context) string { return sessionID.fromContext(ctx) }

// ContextWithRequestID stores a request ID in ctx, for work started outside a request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

// ContextWithSessionID stores a session ID in ctx.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, id)
}
