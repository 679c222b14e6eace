package dto

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsImportFormat(err):
		resp := NewErrorResponse(ErrorCodeImportFormat, err.Error())

		var importErr *domain.ImportFormatError
		if errors.As(err, &importErr) && importErr.Index >= 0 {
			resp.Error.Details = map[string]string{
				"element": fmt.Sprint(importErr.Index),
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsPersistence(err):
		// The slot is safe to show; the storage cause is only logged.
		message := "quote storage failed"

		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			message = fmt.Sprintf("storage slot %q failed", persistErr.Slot)
		}

		return http.StatusInternalServerError, NewErrorResponse(ErrorCodePersistence, message)

	// A remote call refused by the open circuit is both; it answers 503.
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	case domain.IsRemote(err):
		return http.StatusBadGateway, NewErrorResponse(ErrorCodeRemote, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "the operation timed out")

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// GetTraceID returns the trace ID of the request's span, or "" when untraced.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError maps err to an error response and writes it.
// Server-side failures are logged with the full error.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			"error", err.Error(),
			"code", errResp.Error.Code,
			"trace_id", errResp.TraceID,
		)
	}

	_ = c.Error(err)
	c.JSON(status, errResp)
}

// HandleBindError writes the response for a BindAndValidate failure:
// field details for validation failures, BAD_REQUEST otherwise.
func HandleBindError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, FieldErrors(err))
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request")
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponse(ErrorCodeValidation, "request validation failed").WithDetails(fieldErrors)

	c.JSON(http.StatusBadRequest, errResp.WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
// Middleware uses it to answer before or instead of the handler.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
