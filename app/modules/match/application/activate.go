package matchservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// ActivateDraftMatch records the draft outcome and moves the match to
// active. Picks are mapped onto the participants' leaders; the ban list and
// the raw snapshot are stored for audit.
func (s *MatchService) ActivateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, draft sharedtypes.DraftResult) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "ActivateDraftMatch", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
			match, err := s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				if isMatchNotFound(err) {
					return results.FailureResult[MatchResult](
						sharedtypes.NewFailure(sharedtypes.FailureNotFound, "match %s does not exist", matchID),
					), nil
				}
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load match: %w", err)
			}

			if match.Status != matchdomain.StatusDrafting {
				return results.FailureResult[MatchResult](
					sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "match %s is %s, not drafting", matchID, match.Status),
				), nil
			}

			for _, p := range match.Participants {
				if leader, ok := draft.Picks[p.PlayerID]; ok {
					l := leader
					p.Leader = &l
					if err := s.repo.UpdateParticipant(ctx, db, p); err != nil {
						return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
					}
				}
			}

			bans := make([]*matchdb.Ban, len(draft.Bans))
			for i, b := range draft.Bans {
				bans[i] = &matchdb.Ban{MatchID: matchID, Leader: b.Leader, Seat: b.Seat}
			}
			if err := s.repo.ReplaceBans(ctx, db, matchID, bans); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			match.Status = matchdomain.StatusActive
			match.DraftSnapshot = draft.Snapshot
			if err := s.repo.UpdateMatch(ctx, db, match); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			s.logger.InfoContext(ctx, "Match activated after draft",
				attr.ExtractCorrelationID(ctx),
				attr.String("match_id", matchID.String()),
				attr.Int("bans", len(bans)),
			)

			return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match}), nil
		})
	})
}
