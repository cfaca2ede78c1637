package matchhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// HandleReportRequest applies a player's result report. A malformed outcome
// is a soft failure, not a handler error, so the gateway can show it.
func (h *MatchHandlers) HandleReportRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleReportRequest",
		&sharedevents.MatchReportRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.MatchReportRequestPayload)

			input, err := placementInput(req.WinnerSide, req.Placements)
			if err != nil {
				failure, ferr := resultMessage(msg, sharedevents.MatchReportFailure, sharedevents.FailurePayload{
					Failure: sharedtypes.NewFailure(sharedtypes.FailureMissingPlacement, "%s", err.Error()),
				})
				if ferr != nil {
					return nil, ferr
				}
				return []*message.Message{failure}, nil
			}

			result, err := h.matchService.ReportMatch(ctx, req.MatchID, req.ReporterID, input)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.MatchReportFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.MatchReportSuccess, sharedevents.MatchResultPayload{
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
