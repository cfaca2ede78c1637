package lobbyservice

import (
	"context"
	"errors"
	"fmt"

	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Delete removes the lobby record. Deleting a lobby that does not exist
// succeeds with a false payload.
func (s *LobbyService) Delete(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[bool, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "DeleteLobby", mode, func(ctx context.Context) (results.OperationResult[bool, sharedtypes.Failure], error) {
		_, err := s.storage.Get(ctx, mode)
		if err != nil {
			if errors.Is(err, lobbystorage.ErrNotFound) {
				return results.SuccessResult[bool, sharedtypes.Failure](false), nil
			}
			return results.OperationResult[bool, sharedtypes.Failure]{}, fmt.Errorf("failed to load lobby: %w", err)
		}

		if err := s.storage.Delete(ctx, mode); err != nil {
			return results.OperationResult[bool, sharedtypes.Failure]{}, fmt.Errorf("failed to delete lobby: %w", err)
		}

		s.logger.InfoContext(ctx, "Lobby deleted",
			attr.ExtractCorrelationID(ctx),
			attr.String("mode", mode.String()),
		)

		return results.SuccessResult[bool, sharedtypes.Failure](true), nil
	})
}
