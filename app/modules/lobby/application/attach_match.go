package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// AttachMatch binds a match id to an open lobby and moves it to drafting.
// Re-attaching the same id is an idempotent no-op; a different id on a lobby
// that already carries one is rejected.
func (s *LobbyService) AttachMatch(ctx context.Context, mode sharedtypes.GameMode, matchID sharedtypes.MatchID) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "AttachMatch", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
		state, err := s.storage.Get(ctx, mode)
		if err != nil {
			if errors.Is(err, lobbystorage.ErrNotFound) {
				return results.FailureResult[LobbyResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "no %s lobby exists", mode),
				), nil
			}
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load lobby: %w", err)
		}

		if state.MatchID != nil {
			if *state.MatchID == matchID {
				return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: state}), nil
			}
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "lobby already bound to match %s", *state.MatchID),
			), nil
		}

		if !lobbydomain.CanTransition(state.Status, lobbydomain.StatusDrafting) {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidTransition, "cannot attach a match to a %s lobby", state.Status),
			), nil
		}

		next := state.Clone()
		next.MatchID = &matchID
		next.Status = lobbydomain.StatusDrafting
		next.Bump(s.now())

		if err := s.storage.Put(ctx, next); err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist match attachment: %w", err)
		}

		s.logger.InfoContext(ctx, "Match attached to lobby",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.String("match_id", matchID.String()),
			attr.Int("revision", int(next.Revision)),
		)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: next, Written: true}), nil
	})
}
