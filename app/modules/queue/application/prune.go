package queueservice

import (
	"context"
	"time"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// PruneStale sweeps every queue for entries older than the timeout and
// returns them grouped by mode so the caller can notify the players. Runs on
// an external periodic trigger.
func (s *QueueService) PruneStale(ctx context.Context, timeout time.Duration) (results.OperationResult[PruneResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "QueuePruneStale", "", func(ctx context.Context) (results.OperationResult[PruneResult, sharedtypes.Failure], error) {
		states, err := s.storage.ListQueues(ctx)
		if err != nil {
			return results.OperationResult[PruneResult, sharedtypes.Failure]{}, err
		}

		cutoff := time.Now().UTC().Add(-timeout)
		removedByMode := make(map[sharedtypes.GameMode][]queuedomain.QueueEntry)

		for _, state := range states {
			next, removed := state.RemoveStale(cutoff)
			if len(removed) == 0 {
				continue
			}

			if err := s.storage.PutQueue(ctx, next); err != nil {
				return results.OperationResult[PruneResult, sharedtypes.Failure]{}, err
			}

			playerIDs := make([]sharedtypes.PlayerID, len(removed))
			for i, e := range removed {
				playerIDs[i] = e.PlayerID
			}
			if err := s.storage.DeleteMemberModes(ctx, playerIDs); err != nil {
				return results.OperationResult[PruneResult, sharedtypes.Failure]{}, err
			}

			removedByMode[state.Mode] = removed

			s.logger.InfoContext(ctx, "Pruned stale queue entries",
				attr.String("mode", state.Mode.String()),
				attr.Int("removed", len(removed)),
			)
		}

		return results.SuccessResult[PruneResult, sharedtypes.Failure](PruneResult{Removed: removedByMode}), nil
	})
}
