package ratingdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// RatingDBImpl implements RatingDB over bun.
type RatingDBImpl struct {
	DB *bun.DB
}

func (r *RatingDBImpl) conn(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

// ListByTrack returns every rating row of the track ordered best first by
// the conservative estimate. This is the leaderboard order.
func (r *RatingDBImpl) ListByTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack) ([]*PlayerRating, error) {
	var ratings []*PlayerRating
	err := r.conn(db).NewSelect().
		Model(&ratings).
		Where("track = ?", track).
		OrderExpr("mu - 3 * sigma DESC").
		Order("player_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings for track %s: %w", track, err)
	}
	return ratings, nil
}

func (r *RatingDBImpl) UpsertRating(ctx context.Context, db bun.IDB, rating *PlayerRating) error {
	_, err := r.conn(db).NewInsert().
		Model(rating).
		On("CONFLICT (player_id, track) DO UPDATE").
		Set("mu = EXCLUDED.mu").
		Set("sigma = EXCLUDED.sigma").
		Set("games_played = EXCLUDED.games_played").
		Set("wins = EXCLUDED.wins").
		Set("last_played_at = EXCLUDED.last_played_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert rating for player %s on track %s: %w", rating.PlayerID, rating.Track, err)
	}
	return nil
}

// ReplaceTrack swaps the track's rows wholesale. Replay output replaces any
// drifted state instead of merging with it.
func (r *RatingDBImpl) ReplaceTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack, ratings []*PlayerRating) error {
	conn := r.conn(db)
	if _, err := conn.NewDelete().
		Model((*PlayerRating)(nil)).
		Where("track = ?", track).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear ratings for track %s: %w", track, err)
	}
	if len(ratings) == 0 {
		return nil
	}
	if _, err := conn.NewInsert().
		Model(&ratings).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert ratings for track %s: %w", track, err)
	}
	return nil
}
