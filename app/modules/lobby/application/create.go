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

// Create opens a fresh lobby for the mode. A lobby already in a terminal
// status is replaced; a live one blocks creation.
func (s *LobbyService) Create(ctx context.Context, mode sharedtypes.GameMode, hostID sharedtypes.PlayerID, channel sharedtypes.ChannelBinding) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "CreateLobby", mode, func(ctx context.Context) (results.OperationResult[LobbyResult, sharedtypes.Failure], error) {
		cfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode),
			), nil
		}

		existing, err := s.storage.Get(ctx, mode)
		if err != nil && !errors.Is(err, lobbystorage.ErrNotFound) {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load existing lobby: %w", err)
		}

		if existing != nil && !existing.Status.IsTerminal() {
			return results.FailureResult[LobbyResult](
				sharedtypes.NewFailure(sharedtypes.FailureInvalidState, "a %s lobby is already %s", mode, existing.Status),
			), nil
		}

		state := lobbydomain.NewLobbyState(mode, cfg.MaxPlayers, hostID, channel, s.now())
		if err := s.storage.Put(ctx, state); err != nil {
			return results.OperationResult[LobbyResult, sharedtypes.Failure]{}, fmt.Errorf("failed to persist new lobby: %w", err)
		}

		s.logger.InfoContext(ctx, "Lobby created",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
			attr.String("host_id", hostID.String()),
		)

		return results.SuccessResult[LobbyResult, sharedtypes.Failure](LobbyResult{State: state, Written: true}), nil
	})
}
