package matchdb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// MatchDB is the persistence surface of the match ledger. Every method takes
// a bun.IDB so callers can run several of them inside one transaction; a nil
// IDB falls back to the repository's own connection.
type MatchDB interface {
	GetMatch(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID) (*Match, error)
	CreateMatch(ctx context.Context, db bun.IDB, match *Match) error
	EnsureParticipants(ctx context.Context, db bun.IDB, participants []*MatchParticipant) error
	UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error
	UpdateParticipant(ctx context.Context, db bun.IDB, participant *MatchParticipant) error
	ReplaceBans(ctx context.Context, db bun.IDB, matchID sharedtypes.MatchID, bans []*Ban) error
	ListCompletedByTrack(ctx context.Context, db bun.IDB, track sharedtypes.LeaderboardTrack) ([]*Match, error)
}
