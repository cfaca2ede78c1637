package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Get returns the lobby for the mode with its slots normalized against live
// queue membership. Normalization here is read-only; nothing is written back.
func (s *LobbyService) Get(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "GetLobby", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
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

		entries, err := s.liveQueueEntries(ctx, mode)
		if err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load queue for normalization: %w", err)
		}

		view := state.Clone()
		view.Slots = lobbydomain.NormalizeSlots(cfg.MaxPlayers, view.Slots, entries)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: view}), nil
	})
}
