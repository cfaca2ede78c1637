package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// SetSlots replaces the slot assignment. The proposed layout is normalized
// against live queue membership first; a normalized result identical to the
// stored one skips the write entirely.
func (s *LobbyService) SetSlots(ctx context.Context, mode sharedtypes.GameMode, slots []sharedtypes.PlayerID) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "SetLobbySlots", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
		cfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode),
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

		if state.Status.IsTerminal() {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "cannot edit slots of a %s lobby", state.Status),
			), nil
		}

		entries, err := s.liveQueueEntries(ctx, mode)
		if err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load queue for normalization: %w", err)
		}

		normalized := lobbydomain.NormalizeSlots(cfg.MaxPlayers, slots, entries)
		if cmp.Equal(normalized, state.Slots) {
			return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: state}), nil
		}

		next := state.Clone()
		next.Slots = normalized
		next.Bump(s.now())

		if err := s.storage.Put(ctx, next); err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist slot assignment: %w", err)
		}

		s.logger.InfoContext(ctx, "Lobby slots updated",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.Int("occupied", len(next.OccupiedSlots())),
			attr.Int("revision", int(next.Revision)),
		)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: next, Written: true}), nil
	})
}
