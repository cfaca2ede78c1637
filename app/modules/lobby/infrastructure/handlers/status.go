package lobbyhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleStatusRequest moves a lobby through its lifecycle.
func (h *LobbyHandlers) HandleStatusRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleStatusRequest",
		&sharedevents.LobbyStatusRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LobbyStatusRequestPayload)

			result, err := h.lobbyService.SetStatus(ctx, req.Mode, req.Status)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.LobbyStatusFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.LobbyStatusSuccess, sharedevents.LobbyStatePayload{State: result.Success.State})
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
