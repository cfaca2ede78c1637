package queueservice

import (
	"context"
	"errors"
	"fmt"

	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Leave removes a player from whichever queue holds them.
func (s *QueueService) Leave(ctx context.Context, playerID sharedtypes.PlayerID) (results.OperationResult[LeaveResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "QueueLeave", "", func(ctx context.Context) (results.OperationResult[LeaveResult, sharedtypes.Failure], error) {
		mode, err := s.storage.GetMemberMode(ctx, playerID)
		if err != nil {
			if errors.Is(err, queuestorage.ErrNotFound) {
				return results.FailureResult[LeaveResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "player %s is not queued", playerID)), nil
			}
			return results.OperationResult[LeaveResult, sharedtypes.Failure]{}, fmt.Errorf("failed to check queue membership: %w", err)
		}

		state, err := s.storage.GetQueue(ctx, mode)
		if err != nil {
			if errors.Is(err, queuestorage.ErrNotFound) {
				// Index pointed at a queue that no longer exists; repair it.
				if delErr := s.storage.DeleteMemberModes(ctx, []sharedtypes.PlayerID{playerID}); delErr != nil {
					return results.OperationResult[LeaveResult, sharedtypes.Failure]{}, delErr
				}
				return results.FailureResult[LeaveResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "player %s is not queued", playerID)), nil
			}
			return results.OperationResult[LeaveResult, sharedtypes.Failure]{}, err
		}

		var removed LeaveResult
		removed.Mode = mode
		for _, e := range state.Entries {
			if e.PlayerID == playerID {
				removed.Entry = e
				break
			}
		}

		next := state.Remove([]sharedtypes.PlayerID{playerID})
		if len(next.Entries) != len(state.Entries) {
			if err := s.storage.PutQueue(ctx, next); err != nil {
				return results.OperationResult[LeaveResult, sharedtypes.Failure]{}, err
			}
		}
		if err := s.storage.DeleteMemberModes(ctx, []sharedtypes.PlayerID{playerID}); err != nil {
			return results.OperationResult[LeaveResult, sharedtypes.Failure]{}, err
		}

		s.logger.InfoContext(ctx, "Player left queue",
			attr.String("player_id", playerID.String()),
			attr.String("mode", mode.String()),
			attr.Int("queue_length", len(next.Entries)),
		)

		return results.SuccessResult[LeaveResult, sharedtypes.Failure](removed), nil
	})
}
