package lobbyhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/attr"
)

// HandleFormMatchRequest attempts to cut a match from the queue.
func (h *LobbyHandlers) HandleFormMatchRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleFormMatchRequest",
		&sharedevents.LobbyFormMatchRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LobbyFormMatchRequestPayload)
			return h.formMatch(ctx, msg, req.Mode)
		},
	)(msg)
}

// HandleQueueMatchReady reacts to a queue reaching target size by forming a
// match immediately.
func (h *LobbyHandlers) HandleQueueMatchReady(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleQueueMatchReady",
		&sharedevents.QueueMatchReadyPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.QueueMatchReadyPayload)
			return h.formMatch(ctx, msg, req.Mode)
		},
	)(msg)
}

func (h *LobbyHandlers) formMatch(ctx context.Context, msg *message.Message, mode sharedtypes.GameMode) ([]*message.Message, error) {
	result, err := h.lobbyService.FormMatch(ctx, mode)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		failure, err := resultMessage(msg, sharedevents.LobbyFormMatchFailure, sharedevents.FailurePayload{Failure: *result.Failure})
		if err != nil {
			return nil, err
		}
		return []*message.Message{failure}, nil
	}

	formed := result.Success
	if !formed.Formed {
		h.logger.InfoContext(ctx, "Queue below target size, no match formed",
			attr.CorrelationIDFromMsg(msg),
			attr.String("mode", mode.String()),
		)
	}

	success, err := resultMessage(msg, sharedevents.LobbyFormMatchSuccess, sharedevents.LobbyFormMatchSuccessPayload{
		Formed:  formed.Formed,
		MatchID: formed.MatchID,
		Seats:   formed.Seats,
	})
	if err != nil {
		return nil, err
	}
	if formed.Formed {
		h.rerender(ctx, formed.State)
	}
	return []*message.Message{success}, nil
}
