package queueservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Join appends a player to the mode's waiting list. A player may be a member
// of at most one queue at a time.
func (s *QueueService) Join(ctx context.Context, mode sharedtypes.GameMode, entry queuedomain.QueueEntry) (results.OperationResult[JoinResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "QueueJoin", mode, func(ctx context.Context) (results.OperationResult[JoinResult, sharedtypes.Failure], error) {
		modeCfg, ok := s.modes.Lookup(mode)
		if !ok {
			return results.FailureResult[JoinResult](
				sharedtypes.NewFailure(sharedtypes.FailureNotFound, "unknown mode %q", mode)), nil
		}

		existingMode, err := s.storage.GetMemberMode(ctx, entry.PlayerID)
		switch {
		case err == nil:
			return results.FailureResult[JoinResult](
				sharedtypes.NewFailure(sharedtypes.FailureAlreadyQueued, "already queued for %s", existingMode)), nil
		case !errors.Is(err, queuestorage.ErrNotFound):
			return results.OperationResult[JoinResult, sharedtypes.Failure]{}, fmt.Errorf("failed to check queue membership: %w", err)
		}

		state, err := s.storage.GetQueue(ctx, mode)
		if err != nil {
			if !errors.Is(err, queuestorage.ErrNotFound) {
				return results.OperationResult[JoinResult, sharedtypes.Failure]{}, err
			}
			state = &queuedomain.QueueState{Mode: mode, TargetSize: modeCfg.TargetSize}
		}

		if len(state.Entries) >= s.hardCap {
			return results.FailureResult[JoinResult](
				sharedtypes.NewFailure(sharedtypes.FailureQueueFull, "queue for %s is at capacity", mode)), nil
		}

		if entry.JoinedAt.IsZero() {
			entry.JoinedAt = time.Now().UTC()
		}
		next := state.Append(entry)

		if err := s.storage.PutQueue(ctx, next); err != nil {
			return results.OperationResult[JoinResult, sharedtypes.Failure]{}, err
		}
		if err := s.storage.PutMemberMode(ctx, entry.PlayerID, mode); err != nil {
			return results.OperationResult[JoinResult, sharedtypes.Failure]{}, err
		}

		s.logger.InfoContext(ctx, "Player joined queue",
			attr.String("player_id", entry.PlayerID.String()),
			attr.String("mode", mode.String()),
			attr.Int("queue_length", len(next.Entries)),
		)

		return results.SuccessResult[JoinResult, sharedtypes.Failure](JoinResult{
			State:    next,
			Position: len(next.Entries),
		}), nil
	})
}
