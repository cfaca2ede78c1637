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

// SetStatus drives the lobby state machine. Same-status requests are no-ops,
// disallowed edges are rejected without writing, and every accepted
// transition bumps the revision.
func (s *LobbyService) SetStatus(ctx context.Context, mode sharedtypes.GameMode, next lobbydomain.Status) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "SetLobbyStatus", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
		if !next.IsValid() {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidTransition, "unknown status %q", next),
			), nil
		}

		state, err := s.storage.Get(ctx, mode)
		if err != nil {
			if errors.Is(err, lobbystorage.ErrNotFound) {
				return results.FailureResult[LobbyResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "no %s lobby exists", mode),
				), nil
			}
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load lobby: %w", err)
		}

		if state.Status == next {
			return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: state}), nil
		}

		if !lobbydomain.CanTransition(state.Status, next) {
			s.logger.WarnContext(ctx, "Rejected lobby transition",
				attr.ExtractCorrelationID(ctx),
				attr.String("mode", mode.String()),
				attr.String("from", string(state.Status)),
				attr.String("to", string(next)),
			)
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidTransition, "cannot move lobby from %s to %s", state.Status, next),
			), nil
		}

		updated := state.Clone()
		updated.Status = next
		updated.Bump(s.now())

		if err := s.storage.Put(ctx, updated); err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist status change: %w", err)
		}

		s.logger.InfoContext(ctx, "Lobby status changed",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.String("from", string(state.Status)),
			attr.String("to", string(next)),
			attr.Int("revision", int(updated.Revision)),
		)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: updated, Written: true}), nil
	})
}
