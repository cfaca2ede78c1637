package matchservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// ResolveMatchByModerator rewrites the outcome of any match, terminal ones
// included. The track's history changed, so the whole track replays after
// the correction commits.
func (s *MatchService) ResolveMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID, input matchdomain.PlacementInput) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "ResolveMatchByModerator", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
			match, err := s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				if isMatchNotFound(err) {
					return results.FailureResult[MatchResult](
						sharedtypes.NewFailure(sharedtypes.FailureNotFound, "match %s does not exist", matchID),
					), nil
				}
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load match: %w", err)
			}

			if failure, err := s.applyPlacements(ctx, db, match, input); err != nil || failure != nil {
				if failure != nil {
					return results.FailureResult[MatchResult](*failure), nil
				}
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			if match.Status != matchdomain.StatusCompleted {
				completedAt := s.now()
				match.Status = matchdomain.StatusCompleted
				match.CompletedAt = &completedAt
				if err := s.repo.UpdateMatch(ctx, db, match); err != nil {
					return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
				}
			}

			return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		s.logger.InfoContext(ctx, "Match resolved by moderator",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", matchID.String()),
			attr.String("track", result.Success.Match.Track.String()),
		)

		if err := s.ratings.ReplayTrack(ctx, result.Success.Match.Track); err != nil {
			return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to replay track %s: %w", result.Success.Match.Track, err)
		}
		return result, nil
	})
}

// CancelMatchByModerator voids a match in any state. A completed match's
// results must be unwound, so its track replays.
func (s *MatchService) CancelMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "CancelMatchByModerator", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
		wasCompleted := false
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
			match, err := s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				if isMatchNotFound(err) {
					return results.FailureResult[MatchResult](
						sharedtypes.NewFailure(sharedtypes.FailureNotFound, "match %s does not exist", matchID),
					), nil
				}
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load match: %w", err)
			}

			if match.Status == matchdomain.StatusCancelled {
				return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
			}

			wasCompleted = match.Status == matchdomain.StatusCompleted
			match.Status = matchdomain.StatusCancelled
			if err := s.repo.UpdateMatch(ctx, db, match); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		s.unbindActivity(ctx, result.Success.Match, "")
		s.logger.InfoContext(ctx, "Match cancelled by moderator",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", matchID.String()),
			attr.Bool("was_completed", wasCompleted),
		)

		if wasCompleted {
			if err := s.ratings.ReplayTrack(ctx, result.Success.Match.Track); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to replay track %s: %w", result.Success.Match.Track, err)
			}
		}
		return result, nil
	})
}

// GetMatch loads one ledger row with its participants.
func (s *MatchService) GetMatch(ctx context.Context, matchID sharedtypes.MatchID) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "GetMatch", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
		match, err := s.repo.GetMatch(ctx, nil, matchID)
		if err != nil {
			if isMatchNotFound(err) {
				return results.FailureResult[MatchResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "match %s does not exist", matchID),
				), nil
			}
			return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load match: %w", err)
		}
		return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
	})
}
