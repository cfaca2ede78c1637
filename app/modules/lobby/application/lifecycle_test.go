package lobbyservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

var testChannel = sharedtypes.ChannelBinding{ChannelID: "chan-1", MessageID: "msg-1"}

func mustCreate(t *testing.T, f *lobbyFixture, mode sharedtypes.GameMode, host sharedtypes.PlayerID) *lobbydomain.LobbyState {
	t.Helper()
	res, err := f.svc.Create(context.Background(), mode, host, testChannel)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	return res.Success.State
}

func TestCreate_HostTakesSlotZero(t *testing.T) {
	f := newTestLobbyService()

	state := mustCreate(t, f, "duel", "host")

	assert.Equal(t, lobbydomain.StatusOpen, state.Status)
	assert.Equal(t, sharedtypes.PlayerID("host"), state.Slots[0])
	assert.Len(t, state.Slots, 2)
	assert.Equal(t, int64(1), state.Revision)
}

func TestCreate_RejectsWhileLobbyLive(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	res, err := f.svc.Create(context.Background(), "duel", "other", testChannel)
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureInvalidState, res.Failure.Code)
}

func TestCreate_ReplacesTerminalLobby(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	res, err := f.svc.SetStatus(context.Background(), "duel", lobbydomain.StatusCancelled)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	state := mustCreate(t, f, "duel", "host2")
	assert.Equal(t, sharedtypes.PlayerID("host2"), state.HostID)
	assert.Equal(t, int64(1), state.Revision)
}

func TestCreate_UnknownMode(t *testing.T) {
	f := newTestLobbyService()

	res, err := f.svc.Create(context.Background(), "hotseat", "host", testChannel)
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureNotFound, res.Failure.Code)
}

func TestSetStatus_SameStatusSkipsWrite(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")
	before := f.storage.Writes()

	res, err := f.svc.SetStatus(context.Background(), "duel", lobbydomain.StatusOpen)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.False(t, res.Success.Written)
	assert.Equal(t, before, f.storage.Writes())
}

func TestSetStatus_InvalidTransitionLeavesStateUntouched(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")
	before := f.storage.Writes()

	res, err := f.svc.SetStatus(context.Background(), "duel", lobbydomain.StatusCompleted)
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureInvalidTransition, res.Failure.Code)
	assert.Equal(t, before, f.storage.Writes())

	stored, err := f.storage.Get(context.Background(), "duel")
	require.NoError(t, err)
	assert.Equal(t, lobbydomain.StatusOpen, stored.Status)
	assert.Equal(t, int64(1), stored.Revision)
}

func TestSetStatus_AcceptedTransitionBumpsRevision(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	res, err := f.svc.SetStatus(context.Background(), "duel", lobbydomain.StatusCancelled)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.True(t, res.Success.Written)
	assert.Equal(t, int64(2), res.Success.State.Revision)
}

func TestAttachMatch_OpenToDrafting(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	res, err := f.svc.AttachMatch(context.Background(), "duel", "m-1")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, lobbydomain.StatusDrafting, res.Success.State.Status)
	require.NotNil(t, res.Success.State.MatchID)
	assert.Equal(t, sharedtypes.MatchID("m-1"), *res.Success.State.MatchID)
}

func TestAttachMatch_SameIDIsIdempotent(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	first, err := f.svc.AttachMatch(context.Background(), "duel", "m-1")
	require.NoError(t, err)
	require.True(t, first.IsSuccess())
	before := f.storage.Writes()

	again, err := f.svc.AttachMatch(context.Background(), "duel", "m-1")
	require.NoError(t, err)
	require.True(t, again.IsSuccess())
	assert.False(t, again.Success.Written)
	assert.Equal(t, before, f.storage.Writes())
}

func TestAttachMatch_DifferentIDRejected(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	_, err := f.svc.AttachMatch(context.Background(), "duel", "m-1")
	require.NoError(t, err)

	res, err := f.svc.AttachMatch(context.Background(), "duel", "m-2")
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, sharedtypes.FailureInvalidState, res.Failure.Code)
}

func TestDelete_MissingLobbyIsNotAnError(t *testing.T) {
	f := newTestLobbyService()

	res, err := f.svc.Delete(context.Background(), "duel")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.False(t, *res.Success)
}

func TestDelete_RemovesLobby(t *testing.T) {
	f := newTestLobbyService()
	mustCreate(t, f, "duel", "host")

	res, err := f.svc.Delete(context.Background(), "duel")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.True(t, *res.Success)

	get, err := f.svc.Get(context.Background(), "duel")
	require.NoError(t, err)
	require.True(t, get.IsFailure())
	assert.Equal(t, sharedtypes.FailureNotFound, get.Failure.Code)
}
