package matchhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// HandleModerateRequest applies a moderator correction: cancel the match or
// rewrite its outcome. The gateway has already checked the moderator role.
func (h *MatchHandlers) HandleModerateRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleModerateRequest",
		&sharedevents.MatchModerateRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.MatchModerateRequestPayload)

			var result results.OperationResult[matchservice.MatchResult, sharedtypes.Failure]
			var err error
			if req.Cancel {
				result, err = h.matchService.CancelMatchByModerator(ctx, req.MatchID)
			} else {
				input, perr := placementInput(req.WinnerSide, req.Placements)
				if perr != nil {
					failure, ferr := resultMessage(msg, sharedevents.MatchModerateFailure, sharedevents.FailurePayload{
						Failure: sharedtypes.NewFailure(sharedtypes.FailureMissingPlacement, "%s", perr.Error()),
					})
					if ferr != nil {
						return nil, ferr
					}
					return []*message.Message{failure}, nil
				}
				result, err = h.matchService.ResolveMatchByModerator(ctx, req.MatchID, input)
			}
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.MatchModerateFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.MatchModerateSuccess, sharedevents.MatchResultPayload{
				MatchID: req.MatchID,
				Status:  string(result.Success.Match.Status),
			})
			if err != nil {
				return nil, err
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
