package ratingdb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// RatingDB is the persistence surface for player ratings. Methods take a
// bun.IDB so the rating engine can share the caller's transaction; nil falls
// back to the repository's own connection.
type RatingDB interface {
	ListByTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack) ([]*PlayerRating, error)
	UpsertRating(ctx context.Context, db bun.IDB, rating *PlayerRating) error
	ReplaceTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack, ratings []*PlayerRating) error
}
