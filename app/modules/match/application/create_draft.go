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

// CreateDraftMatch writes the ledger row and seats for a freshly formed
// match. Idempotent: calling again with the same id only backfills missing
// participants and never duplicates a seat.
func (s *MatchService) CreateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "CreateDraftMatch", matchID, func(ctx context.Context) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
		cfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[MatchResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode),
			), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[MatchResult, sharedtypes.Failure], error) {
			created := false
			match, err := s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				if !isMatchNotFound(err) {
					return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load match: %w", err)
				}
				match = &matchdb.Match{
					ID:        matchID,
					GameMode:  mode,
					Track:     cfg.Track,
					Status:    matchdomain.StatusDrafting,
					HostID:    hostID,
					CreatedAt: s.now(),
				}
				if err := s.repo.CreateMatch(ctx, db, match); err != nil {
					return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
				}
				created = true
			}

			participants := make([]*matchdb.MatchParticipant, len(seats))
			for i, seat := range seats {
				participants[i] = &matchdb.MatchParticipant{
					MatchID:     matchID,
					PlayerID:    seat.PlayerID,
					DisplayName: seat.DisplayName,
					Team:        seat.Team,
				}
			}
			if err := s.repo.EnsureParticipants(ctx, db, participants); err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, err
			}

			match, err = s.repo.GetMatch(ctx, db, matchID)
			if err != nil {
				return results.OperationResult[MatchResult, sharedtypes.Failure]{}, fmt.Errorf("failed to reload match: %w", err)
			}
			return results.SuccessResult[MatchResult, sharedtypes.Failure](MatchResult{Match: match, Created: created}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		if result.Success.Created {
			s.bindActivity(ctx, result.Success.Match, channelID)
			s.logger.InfoContext(ctx, "Draft match created",
				attr.ExtractCorrelationID(ctx),
				attr.String("match_id", matchID.String()),
				attr.String("mode", mode.String()),
				attr.Int("seats", len(seats)),
			)
		}
		return result, nil
	})
}
