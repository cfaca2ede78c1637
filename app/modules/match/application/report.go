package matchservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// ReportMatch records the outcome of an active match. The host reports; a
// match without a recorded host accepts a report from any participant. On
// success the match completes and ratings update in the same transaction.
func (s *MatchService) ReportMatch(ctx context.Context, matchID sharedtypes.MatchID, reporterID sharedtypes.PlayerID, input matchdomain.PlacementInput) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "ReportMatch", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
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

			if match.Status != matchdomain.StatusActive {
				return results.FailureResult[MatchResult](
					sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "match %s is %s, not active", matchID, match.Status),
				), nil
			}

			if failure := checkReportPermission(match, reporterID); failure != nil {
				return results.FailureResult[MatchResult](*failure), nil
			}

			if failure, err := s.applyPlacements(ctx, db, match, input); err != nil || failure != nil {
				if failure != nil {
					return results.FailureResult[MatchResult](*failure), nil
				}
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			completedAt := s.now()
			match.Status = matchdomain.StatusCompleted
			match.CompletedAt = &completedAt
			if err := s.repo.UpdateMatch(ctx, db, match); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			if err := s.ratings.ApplyMatch(ctx, db, match); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to apply ratings: %w", err)
			}

			return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		s.unbindActivity(ctx, result.Success.Match, "")
		s.logger.InfoContext(ctx, "Match reported and completed",
			attr.ExtractCorrelationID(ctx),
			attr.String("match_id", matchID.String()),
			attr.String("reporter_id", reporterID.String()),
		)
		return result, nil
	})
}

// checkReportPermission enforces who may close a match: the recorded host,
// or any participant when no host is recorded.
func checkReportPermission(match *matchdb.Match, reporterID sharedtypes.PlayerID) *sharedtypes.Failure {
	if match.HostID != "" {
		if reporterID == match.HostID {
			return nil
		}
		f := sharedtypes.NewFailure(sharedtypes.FailureNotPermitted, "only the host may report this match")
		return &f
	}
	for _, p := range match.Participants {
		if p.PlayerID == reporterID {
			return nil
		}
	}
	f := sharedtypes.NewFailure(sharedtypes.FailureNotPermitted, "only a participant may report this match")
	return &f
}

// applyPlacements resolves the input and writes a placement onto every
// participant. A nil failure with nil error means every row was updated.
func (s *MatchService) applyPlacements(ctx context.Context, db bun.IDB, match *matchdb.Match, input matchdomain.PlacementInput) (*sharedtypes.Failure, error) {
	contenders := make([]matchdomain.Contender, len(match.Participants))
	for i, p := range match.Participants {
		contenders[i] = matchdomain.Contender{PlayerID: p.PlayerID, Team: p.Team}
	}

	placements, err := matchdomain.ResolvePlacements(contenders, input)
	if err != nil {
		switch {
		case errors.Is(err, matchdomain.ErrNoPlacements):
			f := sharedtypes.NewFailure(sharedtypes.FailureMissingPlacement, "placement input covers no participants")
			return &f, nil
		case errors.Is(err, matchdomain.ErrTeamlessMatch), errors.Is(err, matchdomain.ErrUnknownTeamSide):
			f := sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "placement input does not fit this match: %v", err)
			return &f, nil
		default:
			return nil, fmt.Errorf("failed to resolve placements: %w", err)
		}
	}

	for _, p := range match.Participants {
		placement, ok := placements[p.PlayerID]
		if !ok {
			f := sharedtypes.NewFailure(sharedtypes.FailureMissingPlacement, "no placement for player %s", p.PlayerID)
			return &f, nil
		}
		pl := placement
		p.Placement = &pl
		if err := s.repo.UpdateParticipant(ctx, db, p); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
