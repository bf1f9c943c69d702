package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmhodges/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/platform/telemetry"
)

// Multi-step operations run as Validate → Perform → Verify → Archive.
// Archive only runs once Verify accepted what Perform produced, so a failed
// registration never leaves a "scheduled" status behind.

// ExecutionStep names a step of an operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the cause so domain errors stay visible to errors.Is.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations step by step with logging.
type Executor struct {
	logger *slog.Logger
	clock  clock.Clock
}

// NewExecutor creates an executor. Nil arguments fall back to defaults.
func NewExecutor(logger *slog.Logger, clk clock.Clock) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Executor{logger: logger, clock: clk}
}

// Operation holds the step functions. Nil steps are skipped; a nil
// Verify passes the performed value through unchanged when P and V are
// the same type, and the zero V otherwise.
type Operation[I, P, V any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
}

// Execute runs op against input and returns the verified value. The run is
// one span named after the operation, with an event per completed step.
func Execute[I, P, V any](ctx context.Context, exec *Executor, op Operation[I, P, V], input I) (V, error) {
	ctx, span := telemetry.Tracer().Start(ctx, op.Name)
	defer span.End()

	verified, err := execute(ctx, exec, op, input)
	if err != nil {
		step, _ := GetExecutionStep(err)
		span.SetAttributes(attribute.String("operation.failed_step", string(step)))
		span.SetStatus(codes.Error, err.Error())
	}

	return verified, err
}

func execute[I, P, V any](ctx context.Context, exec *Executor, op Operation[I, P, V], input I) (V, error) {
	var zero V

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := exec.clock.Now()
	span := trace.SpanFromContext(ctx)

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))
			return zero, &ExecutionError{Step: StepValidate, Message: "preconditions not met", Cause: err}
		}

		span.AddEvent(string(StepValidate))
	}

	var performed P

	if op.Perform != nil {
		logger.DebugContext(ctx, "performing operation")

		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))
			return zero, &ExecutionError{Step: StepPerform, Message: "operation failed", Cause: err}
		}

		span.AddEvent(string(StepPerform))
	}

	verified := zero

	if op.Verify != nil {
		var err error

		verified, err = op.Verify(ctx, input, performed)
		if err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))
			return zero, &ExecutionError{Step: StepVerify, Message: "result not confirmed", Cause: err}
		}

		span.AddEvent(string(StepVerify))
	} else if v, ok := any(performed).(V); ok {
		verified = v
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))
			return zero, &ExecutionError{Step: StepArchive, Message: "state persistence failed", Cause: err}
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", exec.clock.Since(start)),
	)

	return verified, nil
}

// GetExecutionStep extracts the failed step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
