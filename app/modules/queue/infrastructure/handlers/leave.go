package queuehandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleLeaveRequest removes a player from whichever queue they are in.
func (h *QueueHandlers) HandleLeaveRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleLeaveRequest",
		&sharedevents.QueueLeaveRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.QueueLeaveRequestPayload)

			result, err := h.queueService.Leave(ctx, req.PlayerID)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.QueueLeaveFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.QueueLeaveSuccess, sharedevents.QueueLeaveSuccessPayload{
				Mode:     result.Success.Mode,
				PlayerID: req.PlayerID,
			})
			if err != nil {
				return nil, err
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
