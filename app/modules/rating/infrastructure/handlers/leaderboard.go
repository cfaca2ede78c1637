package ratinghandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	sharedevents "github.com/open-civ-league/league-bot/app/shared/events"
)

// HandleLeaderboardRequest answers a standings query for one track.
func (h *RatingHandlers) HandleLeaderboardRequest(msg *message.Message) ([]*message.Message, error) {
	return h.handlerWrapper(
		"HandleLeaderboardRequest",
		&sharedevents.LeaderboardRequestPayload{},
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			req := payload.(*sharedevents.LeaderboardRequestPayload)

			result, err := h.ratingService.Leaderboard(ctx, req.Track, req.Limit)
			if err != nil {
				return nil, err
			}

			if result.IsFailure() {
				failure, err := resultMessage(msg, sharedevents.LeaderboardFailure, sharedevents.FailurePayload{Failure: *result.Failure})
				if err != nil {
					return nil, err
				}
				return []*message.Message{failure}, nil
			}

			success, err := resultMessage(msg, sharedevents.LeaderboardSuccess, sharedevents.LeaderboardSuccessPayload{
				Track:   req.Track,
				Entries: result.Success.Entries,
			})
			if err != nil {
				return nil, err
			}
			return []*message.Message{success}, nil
		},
	)(msg)
}
