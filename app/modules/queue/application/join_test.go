package queueservice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

func newEntry(playerID string) queuedomain.QueueEntry {
	return queuedomain.QueueEntry{
		PlayerID:    sharedtypes.PlayerID(playerID),
		DisplayName: gofakeit.Username(),
		JoinedAt:    time.Now().UTC(),
	}
}

func TestJoin_AppendsInOrder(t *testing.T) {
	storage := NewFakeQueueStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := svc.Join(ctx, "ffa", newEntry(fmt.Sprintf("p%d", i)))
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
		assert.Equal(t, i, res.Success.Position)
	}

	state, err := storage.GetQueue(ctx, "ffa")
	require.NoError(t, err)
	require.Len(t, state.Entries, 3)
	assert.Equal(t, sharedtypes.PlayerID("p1"), state.Entries[0].PlayerID)
	assert.Equal(t, sharedtypes.PlayerID("p3"), state.Entries[2].PlayerID)
}

func TestJoin_RejectsSecondQueue(t *testing.T) {
	storage := NewFakeQueueStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	res, err := svc.Join(ctx, "duel", newEntry("p1"))
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	// Same player, different mode.
	res, err = svc.Join(ctx, "ffa", newEntry("p1"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureAlreadyQueued, res.Failure.Code)
	assert.Contains(t, res.Failure.Reason, "duel")

	// Same player, same mode: still a membership violation.
	res, err = svc.Join(ctx, "duel", newEntry("p1"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureAlreadyQueued, res.Failure.Code)
}

func TestJoin_RejectsUnknownMode(t *testing.T) {
	svc := newTestService(NewFakeQueueStorage())

	res, err := svc.Join(context.Background(), "hyperblitz", newEntry("p1"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureNotFound, res.Failure.Code)
}

func TestJoin_EnforcesHardCap(t *testing.T) {
	storage := NewFakeQueueStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		res, err := svc.Join(ctx, "ffa", newEntry(fmt.Sprintf("cap%d", i)))
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
	}

	res, err := svc.Join(ctx, "ffa", newEntry("one-too-many"))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureQueueFull, res.Failure.Code)
}

func TestLeave_RemovesPlayerAndIndex(t *testing.T) {
	storage := NewFakeQueueStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	_, err := svc.Join(ctx, "ffa", newEntry("p1"))
	require.NoError(t, err)
	_, err = svc.Join(ctx, "ffa", newEntry("p2"))
	require.NoError(t, err)

	res, err := svc.Leave(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, sharedtypes.GameMode("ffa"), res.Success.Mode)

	state, err := storage.GetQueue(ctx, "ffa")
	require.NoError(t, err)
	require.Len(t, state.Entries, 1)
	assert.Equal(t, sharedtypes.PlayerID("p2"), state.Entries[0].PlayerID)

	// Leaving again is a NotFound failure, not an error.
	res, err = svc.Leave(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureNotFound, res.Failure.Code)
}
