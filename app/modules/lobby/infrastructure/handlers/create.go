package lobbyhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleCreateRequest opens a lobby for a mode.
func (h *LobbyHandlers) HandleCreateRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleCreateRequest",
		&sharedevents.LobbyCreateRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LobbyCreateRequestPayload)

			result, err := h.lobbyService.Create(ctx, req.Mode, req.HostID, req.Channel)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.LobbyCreateFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.LobbyCreateSuccess, sharedevents.LobbyStatePayload{State: result.Success.State})
			if err != nil {
				return nil, err
			}
			h.rerender(ctx, result.Success.State)
			return []*message.Message{success}, nil
		},
	)(msg)
}
