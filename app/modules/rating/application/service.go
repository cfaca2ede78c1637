package ratingservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	ratingdomain "github.com/open-civ-league/league-bot/app/modules/rating/domain"
	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/observability"
	"github.com/open-civ-league/league-bot/internal/results"
)

// IntegrityError indicates the completed-match history is inconsistent: a
// completed match whose participants cannot be rated. This is fatal to the
// operation and surfaces as a Go error, never as a business failure.
type IntegrityError struct {
	MatchID sharedtypes.MatchID
	Reason  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("rating integrity violation on match %s: %s", e.MatchID, e.Reason)
}

// RatingService implements the rating engine: incremental updates on report
// and full history replays on moderation corrections.
type RatingService struct {
	repo    ratingdb.RatingDB
	matches matchdb.MatchDB
	db      *bun.DB
	rater   ratingdomain.Rater
	logger  *slog.Logger
	metrics *observability.OperationMetrics
	tracer  trace.Tracer
	now     func() time.Time

	// trackLocks serializes replay against incremental updates per track.
	mu         sync.Mutex
	trackLocks map[sharedtypes.LeaderboardTrack]*sync.Mutex
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	repo ratingdb.RatingDB,
	matches matchdb.MatchDB,
	db *bun.DB,
	rater ratingdomain.Rater,
	logger *slog.Logger,
	metrics *observability.OperationMetrics,
	tracer trace.Tracer,
) *RatingService {
	if rater == nil {
		rater = ratingdomain.NewGaussianRater()
	}
	return &RatingService{
		repo:       repo,
		matches:    matches,
		db:         db,
		rater:      rater,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		now:        func() time.Time { return time.Now().UTC() },
		trackLocks: make(map[sharedtypes.LeaderboardTrack]*sync.Mutex),
	}
}

// trackLock returns the mutex guarding one track's rating state.
func (s *RatingService) trackLock(track sharedtypes.LeaderboardTrack) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.trackLocks[track]
	if !ok {
		lock = &sync.Mutex{}
		s.trackLocks[track] = lock
	}
	return lock
}

type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, sharedtypes.Failure], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any](
	s *RatingService,
	ctx context.Context,
	operationName string,
	track sharedtypes.LeaderboardTrack,
	op operationFunc[S],
) (result results.OperationResult[S, sharedtypes.Failure], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("track", track.String()),
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
				attr.String("track", track.String()),
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
			attr.String("track", track.String()),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx(
	s *RatingService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) error,
) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
