package app

import (
	"context"
	"fmt"

	matchservice "github.com/open-civ-league/league-bot/app/modules/match/application"
	queueservice "github.com/open-civ-league/league-bot/app/modules/queue/application"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// queueClearerAdapter narrows the queue service to the lobby's view of it.
// A failure result here means the stores disagree, so it surfaces as an
// error rather than a soft failure.
type queueClearerAdapter struct {
	queues queueservice.Service
}

func (a *queueClearerAdapter) ClearMatched(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) error {
	result, err := a.queues.Clear(ctx, mode, playerIDs)
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return fmt.Errorf("queue clear rejected: %s", result.Failure)
	}
	return nil
}

// matchCreatorAdapter narrows the match service to the lobby's view of it.
type matchCreatorAdapter struct {
	matches matchservice.Service
}

func (a *matchCreatorAdapter) CreateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) error {
	result, err := a.matches.CreateDraftMatch(ctx, matchID, mode, seats, hostID, channelID)
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return fmt.Errorf("match create rejected: %s", result.Failure)
	}
	return nil
}
