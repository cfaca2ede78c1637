package matchdb

import (
	"time"

	"github.com/uptrace/bun"

	matchdomain "github.com/open-civ-league/league-bot/app/modules/match/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// Match is one row of the match ledger. The draft snapshot is the opaque
// blob the draft room handed back and is kept for audit only.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID            sharedtypes.MatchID         `bun:"id,pk"`
	GameMode      sharedtypes.GameMode        `bun:"game_mode,notnull"`
	Track         sharedtypes.LeaderboardTrack `bun:"track,notnull"`
	Status        matchdomain.Status          `bun:"status,notnull"`
	HostID        sharedtypes.PlayerID        `bun:"host_id,nullzero"`
	DraftSnapshot map[string]any              `bun:"draft_snapshot,type:jsonb,nullzero"`
	CreatedAt     time.Time                   `bun:"created_at,notnull,default:current_timestamp"`
	CompletedAt   *time.Time                  `bun:"completed_at,nullzero"`

	Participants []*MatchParticipant `bun:"rel:has-many,join:id=match_id"`
}

// MatchParticipant is one seat of a match. Rating snapshots are written by
// the rating engine when the match completes or is replayed.
type MatchParticipant struct {
	bun.BaseModel `bun:"table:match_participants,alias:mp"`

	ID          int64                `bun:"id,pk,autoincrement"`
	MatchID     sharedtypes.MatchID  `bun:"match_id,notnull"`
	PlayerID    sharedtypes.PlayerID `bun:"player_id,notnull"`
	DisplayName string               `bun:"display_name"`
	Team        *int                 `bun:"team"`
	Leader      *string              `bun:"leader"`
	Placement   *int                 `bun:"placement"`

	RatingBeforeMean  *float64 `bun:"rating_before_mean"`
	RatingBeforeSigma *float64 `bun:"rating_before_sigma"`
	RatingAfterMean   *float64 `bun:"rating_after_mean"`
	RatingAfterSigma  *float64 `bun:"rating_after_sigma"`
	RankBefore        *int     `bun:"rank_before"`
	RankAfter         *int     `bun:"rank_after"`
}

// Ban records one leader removed from the pool during the draft.
type Ban struct {
	bun.BaseModel `bun:"table:match_bans,alias:mb"`

	ID      int64               `bun:"id,pk,autoincrement"`
	MatchID sharedtypes.MatchID `bun:"match_id,notnull"`
	Leader  string              `bun:"leader,notnull"`
	Seat    int                 `bun:"seat,notnull"`
}
