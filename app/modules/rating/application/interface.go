package ratingservice

import (
	"context"

	"github.com/uptrace/bun"

	matchdb "github.com/open-civ-league/league-bot/app/modules/match/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// Service is the rating module's application surface. ApplyMatch and
// ReplayTrack return plain errors because their failures are
// infrastructure or integrity problems, never expected business outcomes.
type Service interface {
	ApplyMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error
	ReplayTrack(ctx context.Context, track sharedtypes.LeaderboardTrack) error
	Leaderboard(ctx context.Context, track sharedtypes.LeaderboardTrack, limit int) (results.OperationResult[LeaderboardResult, sharedtypes.Failure], error)
}
