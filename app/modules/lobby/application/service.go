package lobbyservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

// QueueLookup is the slice of the queue module's surface the lobby machine
// needs: live membership for slot normalization and match formation.
type QueueLookup interface {
	GetQueue(ctx context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error)
}

// QueueClearer removes matched players from the queue once the match is
// durably created.
type QueueClearer interface {
	ClearMatched(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) error
}

// MatchCreator creates the ledger record when a lobby fills.
type MatchCreator interface {
	CreateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) error
}

// LobbyService implements the Service interface.
type LobbyService struct {
	storage   lobbystorage.Storage
	queues    QueueLookup
	clearer   QueueClearer
	matches   MatchCreator
	draftRoom draftroom.Room
	modes     *sharedtypes.ModeRegistry
	logger    *slog.Logger
	metrics   *observability.OperationMetrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewLobbyService creates a new LobbyService.
func NewLobbyService(
	storage lobbystorage.Storage,
	queues QueueLookup,
	clearer QueueClearer,
	matches MatchCreator,
	draftRoom draftroom.Room,
	modes *sharedtypes.ModeRegistry,
	logger *slog.Logger,
	metrics *observability.OperationMetrics,
	tracer trace.Tracer,
) *LobbyService {
	return &LobbyService{
		storage:   storage,
		queues:    queues,
		clearer:   clearer,
		matches:   matches,
		draftRoom: draftRoom,
		modes:     modes,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, sharedtypes.Failure], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any](
	s *LobbyService,
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

// liveQueueEntries loads the mode's queue, treating a missing queue as empty.
func (s *LobbyService) liveQueueEntries(ctx context.Context, mode sharedtypes.GameMode) ([]queuedomain.QueueEntry, error) {
	state, err := s.queues.GetQueue(ctx, mode)
	if err != nil {
		if isQueueNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return state.Entries, nil
}
