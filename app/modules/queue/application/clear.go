package queueservice

import (
	"context"
	"errors"

	"github.com/google/go-cmp/cmp"

	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Clear removes the listed players from a mode's queue, typically after a
// match has been durably created from them. State is only written when the
// entry set actually changed.
func (s *QueueService) Clear(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) (results.OperationResult[ClearResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "QueueClear", mode, func(ctx context.Context) (results.OperationResult[ClearResult, sharedtypes.Failure], error) {
		state, err := s.storage.GetQueue(ctx, mode)
		if err != nil {
			if errors.Is(err, queuestorage.ErrNotFound) {
				return results.FailureResult[ClearResult](
					sharedtypes.NewFailure(sharedtypes.FailureNotFound, "no queue for mode %q", mode)), nil
			}
			return results.OperationResult[ClearResult, sharedtypes.Failure]{}, err
		}

		next := state.Remove(playerIDs)

		if !cmp.Equal(state.Entries, next.Entries) {
			if err := s.storage.PutQueue(ctx, next); err != nil {
				return results.OperationResult[ClearResult, sharedtypes.Failure]{}, err
			}
		}
		if err := s.storage.DeleteMemberModes(ctx, playerIDs); err != nil {
			return results.OperationResult[ClearResult, sharedtypes.Failure]{}, err
		}

		s.logger.InfoContext(ctx, "Queue cleared",
			attr.String("mode", mode.String()),
			attr.Int("removed", len(state.Entries)-len(next.Entries)),
			attr.Int("remaining", len(next.Entries)),
		)

		return results.SuccessResult[ClearResult, sharedtypes.Failure](ClearResult{State: next}), nil
	})
}
