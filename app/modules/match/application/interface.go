package matchservice

import (
	"context"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// MatchResult carries the ledger row after a successful operation.
type MatchResult struct {
	Match *matchdb.Match
	// Created is false when CreateDraftMatch found the match already there.
	Created bool
}

// Service is the match module's application surface.
type Service interface {
	CreateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
	ActivateDraftMatch(ctx context.Context, matchID sharedtypes.MatchID, draft sharedtypes.DraftResult) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
	ReportMatch(ctx context.Context, matchID sharedtypes.MatchID, reporterID sharedtypes.PlayerID, input matchdomain.PlacementInput) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
	ResolveMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID, input matchdomain.PlacementInput) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
	CancelMatchByModerator(ctx context.Context, matchID sharedtypes.MatchID) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
	GetMatch(ctx context.Context, matchID sharedtypes.MatchID) (results.OperationResult[MatchResult, sharedtypes.Failure], error)
}
