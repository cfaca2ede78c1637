package lobbyhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleSlotsRequest overwrites the lobby's seating arrangement.
func (h *LobbyHandlers) HandleSlotsRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleSlotsRequest",
		&sharedevents.LobbySlotsRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LobbySlotsRequestPayload)

			result, err := h.lobbyService.SetSlots(ctx, req.Mode, req.Slots)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.LobbySlotsFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.LobbySlotsSuccess, sharedevents.LobbyStatePayload{State: result.Success.State})
			if err != nil {
				return nil, err
			}
			if result.Success.Written {
				h.rerender(ctx, result.Success.State)
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
