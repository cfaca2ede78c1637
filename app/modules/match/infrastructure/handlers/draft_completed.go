package matchhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// HandleDraftCompleted records the draft outcome delivered by the draft room
// and moves the match to active.
func (h *MatchHandlers) HandleDraftCompleted(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleDraftCompleted",
		&sharedtypes.DraftResult{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			draft := payload.(*sharedtypes.DraftResult)

			result, err := h.matchService.ActivateDraftMatch(ctx, draft.MatchID, *draft)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.MatchActivateFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.MatchActivateSuccess, sharedevents.MatchResultPayload{
				MatchID: draft.MatchID,
				Status:  string(result.Success.Match.Status),
			})
			if err != nil {
				return nil, err
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
