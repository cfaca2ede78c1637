package queuehandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleJoinRequest enqueues a player and reports whether the queue just
// reached target size, so the lobby flow can form a match.
func (h *QueueHandlers) HandleJoinRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleJoinRequest",
		&sharedevents.QueueJoinRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.QueueJoinRequestPayload)

			result, err := h.queueService.Join(ctx, req.Mode, queuedomain.QueueEntry{
				PlayerID:    req.PlayerID,
				DisplayName: req.DisplayName,
				AvatarURL:   req.AvatarURL,
			})
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.QueueJoinFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			out := []*message.Message{}
			success, err := resultMessage(msg, sharedevents.QueueJoinSuccess, sharedevents.QueueJoinSuccessPayload{
				Mode:     req.Mode,
				PlayerID: req.PlayerID,
				Position: result.Success.Position,
				Size:     len(result.Success.State.Entries),
			})
			if err != nil {
				return nil, err
			}
			out = append(out, success)

			full, err := h.queueService.PeekFull(ctx, req.Mode)
			if err != nil {
				return nil, err
			}
			if full.IsSuccess() && full.Success.Full {
				ready, err := resultMessage(msg, sharedevents.QueueMatchReady, sharedevents.QueueMatchReadyPayload{Mode: req.Mode})
				if err != nil {
					return nil, err
				}
				out = append(out, ready)
			}
			return out, nil
		},
	)(msg)
}
