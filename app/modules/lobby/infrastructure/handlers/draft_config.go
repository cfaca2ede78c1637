package lobbyhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleDraftConfigRequest stores draft timer overrides and, when a draft is
// live, pushes them to the draft room.
func (h *LobbyHandlers) HandleDraftConfigRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleDraftConfigRequest",
		&sharedevents.LobbyDraftConfigRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LobbyDraftConfigRequestPayload)

			result, err := h.lobbyService.SetDraftConfig(ctx, req.Mode, req.Config)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.LobbyDraftConfigFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.LobbyDraftConfigSuccess, sharedevents.LobbyStatePayload{State: result.Success.State})
			if err != nil {
				return nil, err
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
