package queuehandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
)

// HandlePruneRequest sweeps stale entries from every queue. Fired on a
// schedule by the gateway; carries no payload.
func (h *QueueHandlers) HandlePruneRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandlePruneRequest",
		nil,
		func(ctx context.Context, msg *message.Message, _ any) ([]*message.Message, error) {
			result, err := h.queueService.PruneStale(ctx, h.staleTimeout)
			if err != nil {
				return nil, err
			}

			if result.IsSuccess() {
				for mode, removed := range result.Success.Removed {
					h.logger.InfoContext(ctx, "Pruned stale queue entries",
						attr.CorrelationIDFromMsg(msg),
						attr.String("mode", mode.String()),
						attr.Int("removed", len(removed)),
					)
					if h.notifier == nil || len(removed) == 0 {
						continue
					}
					players := make([]sharedtypes.PlayerID, 0, len(removed))
					for _, entry := range removed {
						players = append(players, entry.PlayerID)
					}
					if err := h.notifier.NotifyQueueTimeout(ctx, mode, players); err != nil {
						h.logger.WarnContext(ctx, "Failed to notify queue timeout",
							attr.String("mode", mode.String()),
							attr.Error(err),
						)
					}
				}
			}
			return nil, nil
		},
	)(msg)
}
