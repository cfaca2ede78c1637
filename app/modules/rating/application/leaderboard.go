package ratingservice

import (
	"context"
	"fmt"

	ratingdb "github.com/open-civ-league/league-bot/app/modules/rating/infrastructure/repositories"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// LeaderboardEntry is one ranked row of a track's standings.
type LeaderboardEntry struct {
	Rank         int
	PlayerID     sharedtypes.PlayerID
	Mu           float64
	Sigma        float64
	Conservative float64
	GamesPlayed  int
	Wins         int
}

// LeaderboardResult carries a track's standings.
type LeaderboardResult struct {
	Track   sharedtypes.LeaderboardTrack
	Entries []LeaderboardEntry
}

// Leaderboard returns up to limit rows of the track's standings ordered by
// conservative estimate. A limit of zero or less returns everything.
func (s *RatingService) Leaderboard(ctx context.Context, track sharedtypes.LeaderboardTrack, limit int) (results.OperationResult[LeaderboardResult, sharedtypes.Failure], error) {
	return withTelemetry(s, ctx, "Leaderboard", track, func(ctx context.Context) (results.OperationResult[LeaderboardResult, sharedtypes.Failure], error) {
		rows, err := s.repo.ListByTrack(ctx, nil, track)
		if err != nil {
			return results.OperationResult[LeaderboardResult, sharedtypes.Failure]{}, fmt.Errorf("failed to load leaderboard: %w", err)
		}

		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}

		entries := make([]LeaderboardEntry, len(rows))
		for i, row := range rows {
			entries[i] = leaderboardEntry(i+1, row)
		}

		return results.SuccessResult[LeaderboardResult, sharedtypes.Failure](LeaderboardResult{
			Track:   track,
			Entries: entries,
		}), nil
	})
}

func leaderboardEntry(rank int, row *ratingdb.PlayerRating) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:         rank,
		PlayerID:     row.PlayerID,
		Mu:           row.Mu,
		Sigma:        row.Sigma,
		Conservative: row.Mu - 3*row.Sigma,
		GamesPlayed:  row.GamesPlayed,
		Wins:         row.Wins,
	}
}
