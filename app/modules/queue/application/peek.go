package queueservice

import (
	"context"
	"errors"

	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// PeekFull reports whether the queue has reached target size and, if so,
// returns the first targetSize entries. It never mutates state: the caller
// clears matched entries only after a match is durably created, so a crash in
// between leaves the queue intact and the peek idempotently retryable.
func (s *QueueService) PeekFull(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[PeekFullResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "QueuePeekFull", mode, func(ctx context.Context) (results.OperationResult[PeekFullResult, sharedtypes.Failure], error) {
		modeCfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[PeekFullResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode)), nil
		}

		state, err := s.storage.GetQueue(ctx, mode)
		if err != nil {
			if errors.Is(err, queuestorage.ErrNotFound) {
				return results.SuccessResult[PeekFullResult, sharedtypes.Failure](PeekFullResult{}), nil
			}
			return results.OperationResult[PeekFullResult, sharedtypes.Failure]{}, err
		}

		targetSize := state.TargetSize
		if targetSize <= 0 || targetSize > modeCfg.MaxPlayers {
			targetSize = modeCfg.TargetSize
		}

		head := state.Head(targetSize)
		if head == nil {
			return results.SuccessResult[PeekFullResult, sharedtypes.Failure](PeekFullResult{}), nil
		}

		return results.SuccessResult[PeekFullResult, sharedtypes.Failure](PeekFullResult{
			Full:    true,
			Entries: head,
		}), nil
	})
}
