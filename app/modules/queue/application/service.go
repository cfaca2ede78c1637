package queueservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

// QueueService implements the Service interface.
type QueueService struct {
	storage queuestorage.Storage
	modes   *sharedtypes.ModeRegistry
	hardCap int
	logger  *slog.Logger
	metrics *observability.OperationMetrics
	tracer  trace.Tracer
}

// NewQueueService creates a new QueueService. hardCap is the defensive
// ceiling on queue length, independent of any mode's target size.
func NewQueueService(
	storage queuestorage.Storage,
	modes *sharedtypes.ModeRegistry,
	hardCap int,
	logger *slog.Logger,
	metrics *observability.OperationMetrics,
	tracer trace.Tracer,
) *QueueService {
	return &QueueService{
		storage: storage,
		modes:   modes,
		hardCap: hardCap,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, sharedtypes.Failure], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any](
	s *QueueService,
	ctx context.Context,
	operationName string,
	mode sharedtypes.GameMode,
	op operationFunc[S],
) (result results.OperationResult[S, sharedtypes.Failure], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("mode", mode.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("mode", mode.String()),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, sharedtypes.Failure]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("mode", mode.String()),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("mode", mode.String()),
			attr.Any("failure", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}
