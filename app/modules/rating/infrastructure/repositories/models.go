package ratingdb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// PlayerRating is the current skill belief of one player on one leaderboard
// track. Rows are fully derivable from the completed-match history; a track
// replay deletes and reinserts them.
type PlayerRating struct {
	bun.BaseModel `bun:"table:player_ratings,alias:pr"`

	ID           int64                        `bun:"id,pk,autoincrement"`
	PlayerID     sharedtypes.PlayerID         `bun:"player_id,notnull"`
	Track        sharedtypes.LeaderboardTrack `bun:"track,notnull"`
	Mu           float64                      `bun:"mu,notnull"`
	Sigma        float64                      `bun:"sigma,notnull"`
	GamesPlayed  int                          `bun:"games_played,notnull,default:0"`
	Wins         int                          `bun:"wins,notnull,default:0"`
	LastPlayedAt *time.Time                   `bun:"last_played_at,nullzero"`
}
