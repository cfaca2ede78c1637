package lobbyservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	lobbystorage "github.com/open-civ-league/league-bot/app/modules/lobby/infrastructure/storage"
	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/draftroom"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// ------------------------
// Fake Lobby Storage
// ------------------------

type FakeLobbyStorage struct {
	mu     sync.Mutex
	writes int

	lobbies map[sharedtypes.GameMode]*lobbydomain.LobbyState

	GetFunc func(ctx context.Context, mode sharedtypes.GameMode) (*lobbydomain.LobbyState, error)
	PutFunc func(ctx context.Context, state *lobbydomain.LobbyState) error
}

func NewFakeLobbyStorage() *FakeLobbyStorage {
	return &FakeLobbyStorage{lobbies: make(map[sharedtypes.GameMode]*lobbydomain.LobbyState)}
}

func (f *FakeLobbyStorage) Get(ctx context.Context, mode sharedtypes.GameMode) (*lobbydomain.LobbyState, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, mode)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.lobbies[mode]
	if !ok {
		return nil, lobbystorage.ErrNotFound
	}
	return state.Clone(), nil
}

func (f *FakeLobbyStorage) Put(ctx context.Context, state *lobbydomain.LobbyState) error {
	if f.PutFunc != nil {
		return f.PutFunc(ctx, state)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.lobbies[state.Mode] = state.Clone()
	return nil
}

func (f *FakeLobbyStorage) Delete(_ context.Context, mode sharedtypes.GameMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	delete(f.lobbies, mode)
	return nil
}

func (f *FakeLobbyStorage) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// ------------------------
// Fake Queue Collaborators
// ------------------------

type FakeQueueLookup struct {
	entries map[sharedtypes.GameMode][]queuedomain.QueueEntry
}

func NewFakeQueueLookup() *FakeQueueLookup {
	return &FakeQueueLookup{entries: make(map[sharedtypes.GameMode][]queuedomain.QueueEntry)}
}

func (f *FakeQueueLookup) Add(mode sharedtypes.GameMode, ids ...sharedtypes.PlayerID) {
	for _, id := range ids {
		f.entries[mode] = append(f.entries[mode], queuedomain.QueueEntry{
			PlayerID:    id,
			DisplayName: string(id),
			JoinedAt:    time.Now().UTC(),
		})
	}
}

func (f *FakeQueueLookup) GetQueue(_ context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error) {
	entries, ok := f.entries[mode]
	if !ok {
		return nil, queuestorage.ErrNotFound
	}
	return &queuedomain.QueueState{Mode: mode, Entries: entries}, nil
}

type FakeQueueClearer struct {
	Cleared map[sharedtypes.GameMode][]sharedtypes.PlayerID
	Err     error
}

func NewFakeQueueClearer() *FakeQueueClearer {
	return &FakeQueueClearer{Cleared: make(map[sharedtypes.GameMode][]sharedtypes.PlayerID)}
}

func (f *FakeQueueClearer) ClearMatched(_ context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) error {
	if f.Err != nil {
		return f.Err
	}
	f.Cleared[mode] = append(f.Cleared[mode], playerIDs...)
	return nil
}

// ------------------------
// Fake Match Creator
// ------------------------

type createdMatch struct {
	MatchID   sharedtypes.MatchID
	Mode      sharedtypes.GameMode
	Seats     []sharedtypes.DraftSeat
	HostID    sharedtypes.PlayerID
	ChannelID string
}

type FakeMatchCreator struct {
	Created []createdMatch
	Err     error
}

func (f *FakeMatchCreator) CreateDraftMatch(_ context.Context, matchID sharedtypes.MatchID, mode sharedtypes.GameMode, seats []sharedtypes.DraftSeat, hostID sharedtypes.PlayerID, channelID string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Created = append(f.Created, createdMatch{MatchID: matchID, Mode: mode, Seats: seats, HostID: hostID, ChannelID: channelID})
	return nil
}

// ------------------------
// Fake Draft Room
// ------------------------

type FakeDraftRoom struct {
	Started    []draftroom.StartDraftRequest
	Configured []sharedtypes.MatchID

	StartDraftFunc      func(ctx context.Context, req draftroom.StartDraftRequest) error
	ConfigureTimersFunc func(ctx context.Context, matchID sharedtypes.MatchID, cfg sharedtypes.DraftTimerConfig) error
}

func (f *FakeDraftRoom) StartDraft(ctx context.Context, req draftroom.StartDraftRequest) error {
	if f.StartDraftFunc != nil {
		return f.StartDraftFunc(ctx, req)
	}
	f.Started = append(f.Started, req)
	return nil
}

func (f *FakeDraftRoom) ConfigureTimers(ctx context.Context, matchID sharedtypes.MatchID, cfg sharedtypes.DraftTimerConfig) error {
	if f.ConfigureTimersFunc != nil {
		return f.ConfigureTimersFunc(ctx, matchID, cfg)
	}
	f.Configured = append(f.Configured, matchID)
	return nil
}

// ------------------------
// Service under test
// ------------------------

type lobbyFixture struct {
	svc       *LobbyService
	storage   *FakeLobbyStorage
	queues    *FakeQueueLookup
	clearer   *FakeQueueClearer
	matches   *FakeMatchCreator
	draftRoom *FakeDraftRoom
}

func newTestLobbyService() *lobbyFixture {
	f := &lobbyFixture{
		storage:   NewFakeLobbyStorage(),
		queues:    NewFakeQueueLookup(),
		clearer:   NewFakeQueueClearer(),
		matches:   &FakeMatchCreator{},
		draftRoom: &FakeDraftRoom{},
	}
	f.svc = NewLobbyService(
		f.storage,
		f.queues,
		f.clearer,
		f.matches,
		f.draftRoom,
		sharedtypes.NewModeRegistry(sharedtypes.DefaultModes()),
		slog.Default(),
		observability.NoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
	)
	return f
}
