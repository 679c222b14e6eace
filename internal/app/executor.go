package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
)

// ExecutionStep names a phase of an Operation. Phases run in declaration
// order and nothing is archived before the performed result is verified, so
// a bad remote answer never reaches the quote store.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError is the error of the step that stopped an operation.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Operation, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep reports the step an operation failed in.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation is a unit of work split into steps. Any nil step is skipped and
// its output is the zero value.
type Operation[I, P, V, O any] struct {
	Name string

	// Validate rejects input before anything changes.
	Validate func(ctx context.Context, input I) error

	// Perform does the work, typically a downstream call.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify checks what Perform returned instead of trusting it.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified result.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the result for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op inside a span named after it. The first failing step ends
// the run with an *ExecutionError.
func Execute[I, P, V, O any](ctx context.Context, op Operation[I, P, V, O], input I) (O, error) {
	var (
		performed P
		verified  V
		out       O
	)

	ctx, span := telemetry.Tracer().Start(ctx, "app."+op.Name)
	defer span.End()

	logger := logging.FromContext(ctx).With(slog.String("operation", op.Name))
	start := time.Now()

	steps := []struct {
		name ExecutionStep
		run  func() error
	}{
		{StepValidate, when(op.Validate != nil, func() error {
			return op.Validate(ctx, input)
		})},
		{StepPerform, when(op.Perform != nil, func() (err error) {
			performed, err = op.Perform(ctx, input)
			return err
		})},
		{StepVerify, when(op.Verify != nil, func() (err error) {
			verified, err = op.Verify(ctx, input, performed)
			return err
		})},
		{StepArchive, when(op.Archive != nil, func() error {
			return op.Archive(ctx, input, verified)
		})},
		{StepRespond, when(op.Respond != nil, func() (err error) {
			out, err = op.Respond(ctx, input, verified)
			return err
		})},
	}

	for _, step := range steps {
		if step.run == nil {
			continue
		}

		began := time.Now()

		if err := step.run(); err != nil {
			logger.WarnContext(ctx, "operation step failed",
				slog.String("step", string(step.name)),
				slog.Any("error", err),
			)
			span.SetAttributes(attribute.String("operation.failed_step", string(step.name)))
			span.SetStatus(codes.Error, err.Error())

			var zero O

			return zero, &ExecutionError{Operation: op.Name, Step: step.name, Cause: err}
		}

		span.AddEvent(string(step.name), trace.WithAttributes(
			attribute.Int64("step.duration_ms", time.Since(began).Milliseconds()),
		))
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

func when(ok bool, fn func() error) func() error {
	if !ok {
		return nil
	}

	return fn
}
