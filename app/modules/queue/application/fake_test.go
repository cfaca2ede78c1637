package queueservice

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace/noop"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// ------------------------
// Fake Queue Storage
// ------------------------

type FakeQueueStorage struct {
	mu    sync.Mutex
	trace []string

	queues  map[sharedtypes.GameMode]*queuedomain.QueueState
	members map[sharedtypes.PlayerID]sharedtypes.GameMode

	GetQueueFunc func(ctx context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error)
	PutQueueFunc func(ctx context.Context, state *queuedomain.QueueState) error
}

func NewFakeQueueStorage() *FakeQueueStorage {
	return &FakeQueueStorage{
		queues:  make(map[sharedtypes.GameMode]*queuedomain.QueueState),
		members: make(map[sharedtypes.PlayerID]sharedtypes.GameMode),
	}
}

func (f *FakeQueueStorage) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeQueueStorage) GetQueue(ctx context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error) {
	f.record("GetQueue")
	if f.GetQueueFunc != nil {
		return f.GetQueueFunc(ctx, mode)
	}
	state, ok := f.queues[mode]
	if !ok {
		return nil, queuestorage.ErrNotFound
	}
	return state, nil
}

func (f *FakeQueueStorage) PutQueue(ctx context.Context, state *queuedomain.QueueState) error {
	f.record("PutQueue")
	if f.PutQueueFunc != nil {
		return f.PutQueueFunc(ctx, state)
	}
	f.queues[state.Mode] = state
	return nil
}

func (f *FakeQueueStorage) DeleteQueue(_ context.Context, mode sharedtypes.GameMode) error {
	f.record("DeleteQueue")
	delete(f.queues, mode)
	return nil
}

func (f *FakeQueueStorage) ListQueues(_ context.Context) ([]*queuedomain.QueueState, error) {
	f.record("ListQueues")
	out := make([]*queuedomain.QueueState, 0, len(f.queues))
	for _, s := range f.queues {
		out = append(out, s)
	}
	return out, nil
}

func (f *FakeQueueStorage) GetMemberMode(_ context.Context, playerID sharedtypes.PlayerID) (sharedtypes.GameMode, error) {
	f.record("GetMemberMode")
	mode, ok := f.members[playerID]
	if !ok {
		return "", queuestorage.ErrNotFound
	}
	return mode, nil
}

func (f *FakeQueueStorage) PutMemberMode(_ context.Context, playerID sharedtypes.PlayerID, mode sharedtypes.GameMode) error {
	f.record("PutMemberMode")
	f.members[playerID] = mode
	return nil
}

func (f *FakeQueueStorage) DeleteMemberModes(_ context.Context, playerIDs []sharedtypes.PlayerID) error {
	f.record("DeleteMemberModes")
	for _, id := range playerIDs {
		delete(f.members, id)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeQueueStorage) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeQueueStorage) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, step := range f.trace {
		if step == "PutQueue" {
			n++
		}
	}
	return n
}

// --- Service construction ---

func newTestService(storage queuestorage.Storage) *QueueService {
	modes := sharedtypes.NewModeRegistry(sharedtypes.DefaultModes())
	return NewQueueService(
		storage,
		modes,
		50,
		slog.Default(),
		observability.NoopMetrics(),
		noop.NewTracerProvider().Tracer("test"),
	)
}
