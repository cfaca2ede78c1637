package matchservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

// RatingEngine is what the ledger needs from the rating module. ApplyMatch
// runs inside the completing transaction; ReplayTrack runs after a
// moderation correction has committed.
type RatingEngine interface {
	ApplyMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error
	ReplayTrack(ctx context.Context, track sharedtypes.LeaderboardTrack) error
}

// ActivityBinder maintains the chat-interaction routing keys.
type ActivityBinder interface {
	Bind(ctx context.Context, matchID sharedtypes.MatchID, channelID string, playerIDs []sharedtypes.PlayerID) error
	Unbind(ctx context.Context, channelID string, playerIDs []sharedtypes.PlayerID) error
}

// MatchService implements the Service interface.
type MatchService struct {
	repo     matchdb.MatchDB
	db       *bun.DB
	activity ActivityBinder
	ratings  RatingEngine
	modes    *sharedtypes.ModeRegistry
	logger   *slog.Logger
	metrics  *observability.OperationMetrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	repo matchdb.MatchDB,
	db *bun.DB,
	activity ActivityBinder,
	ratings RatingEngine,
	modes *sharedtypes.ModeRegistry,
	logger *slog.Logger,
	metrics *observability.OperationMetrics,
	tracer trace.Tracer,
) *MatchService {
	return &MatchService{
		repo:     repo,
		db:       db,
		activity: activity,
		ratings:  ratings,
		modes:    modes,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, sharedtypes.Failure], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any](
	s *MatchService,
	ctx context.Context,
	operationName string,
	matchID sharedtypes.MatchID,
	op operationFunc[S],
) (result results.OperationResult[S, sharedtypes.Failure], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("match_id", matchID.String()),
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
				attr.String("match_id", matchID.String()),
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
			attr.String("match_id", matchID.String()),
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
			attr.String("match_id", matchID.String()),
			attr.Any("failure", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *MatchService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// bindActivity is best-effort: the map is a cache, so a KV hiccup must not
// fail the ledger write that already committed.
func (s *MatchService) bindActivity(ctx context.Context, match *matchdb.Match, channelID string) {
	ids := participantIDs(match.Participants)
	if err := s.activity.Bind(ctx, match.ID, channelID, ids); err != nil {
		s.logger.WarnContext(ctx, "Failed to bind activity mapping",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", match.ID.String()),
			attr.Error(err),
		)
	}
}

func (s *MatchService) unbindActivity(ctx context.Context, match *matchdb.Match, channelID string) {
	ids := participantIDs(match.Participants)
	if err := s.activity.Unbind(ctx, channelID, ids); err != nil {
		s.logger.WarnContext(ctx, "Failed to unbind activity mapping",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", match.ID.String()),
			attr.Error(err),
		)
	}
}

func participantIDs(participants []*matchdb.MatchParticipant) []sharedtypes.PlayerID {
	out := make([]sharedtypes.PlayerID, len(participants))
	for i, p := range participants {
		out[i] = p.PlayerID
	}
	return out
}
