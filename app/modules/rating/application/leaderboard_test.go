package ratingservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

func TestLeaderboard_OrderedByConservativeEstimate(t *testing.T) {
	f := newTestRatingService()
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	f.ledger.Add(completedDuel("m-1", base, "p1", "p2"))
	f.ledger.Add(completedDuel("m-2", base.Add(time.Hour), "p1", "p2"))
	require.NoError(t, f.svc.ReplayTrack(context.Background(), "duel"))

	res, err := f.svc.Leaderboard(context.Background(), "duel", 10)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	entries := res.Success.Entries
	require.Len(t, entries, 2)
	assert.Equal(t, sharedtypes.PlayerID("p1"), entries[0].PlayerID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Greater(t, entries[0].Conservative, entries[1].Conservative)
}

func TestLeaderboard_LimitApplies(t *testing.T) {
	f := newTestRatingService()
	base := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	f.ledger.Add(completedDuel("m-1", base, "p1", "p2"))
	f.ledger.Add(completedDuel("m-2", base.Add(time.Hour), "p3", "p4"))
	require.NoError(t, f.svc.ReplayTrack(context.Background(), "duel"))

	res, err := f.svc.Leaderboard(context.Background(), "duel", 2)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Len(t, res.Success.Entries, 2)
}

func TestLeaderboard_EmptyTrack(t *testing.T) {
	f := newTestRatingService()

	res, err := f.svc.Leaderboard(context.Background(), "teamers", 5)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Empty(t, res.Success.Entries)
}
