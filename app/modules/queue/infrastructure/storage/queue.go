// Package queuestorage keeps queue state in the KV router. Queue keys are
// hot: every operation on them is serialized by the coordinator.
package queuestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/kv"
)

const (
	queueKeyPrefix  = "queue:mode:"
	memberKeyPrefix = "queue:member:"
)

// ErrNotFound indicates the queue or index entry does not exist.
var ErrNotFound = errors.New("queue state not found")

// KVStorage implements Storage over a kv.Store.
type KVStorage struct {
	store kv.Store
}

func NewKVStorage(store kv.Store) *KVStorage {
	return &KVStorage{store: store}
}

func queueKey(mode sharedtypes.GameMode) string {
	return queueKeyPrefix + string(mode)
}

func memberKey(playerID sharedtypes.PlayerID) string {
	return memberKeyPrefix + string(playerID)
}

func (s *KVStorage) GetQueue(ctx context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error) {
	raw, err := s.store.Get(ctx, queueKey(mode))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get queue state: %w", err)
	}

	var state queuedomain.QueueState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue state: %w", err)
	}
	return &state, nil
}

func (s *KVStorage) PutQueue(ctx context.Context, state *queuedomain.QueueState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal queue state: %w", err)
	}
	if err := s.store.Put(ctx, queueKey(state.Mode), raw, 0); err != nil {
		return fmt.Errorf("failed to put queue state: %w", err)
	}
	return nil
}

func (s *KVStorage) DeleteQueue(ctx context.Context, mode sharedtypes.GameMode) error {
	if err := s.store.Delete(ctx, queueKey(mode)); err != nil {
		return fmt.Errorf("failed to delete queue state: %w", err)
	}
	return nil
}

func (s *KVStorage) ListQueues(ctx context.Context) ([]*queuedomain.QueueState, error) {
	raw, err := s.store.List(ctx, queueKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue states: %w", err)
	}

	states := make([]*queuedomain.QueueState, 0, len(raw))
	for key, val := range raw {
		var state queuedomain.QueueState
		if err := json.Unmarshal(val, &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue state %q: %w", key, err)
		}
		states = append(states, &state)
	}
	return states, nil
}

func (s *KVStorage) GetMemberMode(ctx context.Context, playerID sharedtypes.PlayerID) (sharedtypes.GameMode, error) {
	raw, err := s.store.Get(ctx, memberKey(playerID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get member index: %w", err)
	}
	return sharedtypes.GameMode(raw), nil
}

func (s *KVStorage) PutMemberMode(ctx context.Context, playerID sharedtypes.PlayerID, mode sharedtypes.GameMode) error {
	if err := s.store.Put(ctx, memberKey(playerID), []byte(mode), 0); err != nil {
		return fmt.Errorf("failed to put member index: %w", err)
	}
	return nil
}

func (s *KVStorage) DeleteMemberModes(ctx context.Context, playerIDs []sharedtypes.PlayerID) error {
	if len(playerIDs) == 0 {
		return nil
	}
	keys := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		keys[i] = memberKey(id)
	}
	if err := s.store.DeleteMulti(ctx, keys); err != nil {
		return fmt.Errorf("failed to delete member index entries: %w", err)
	}
	return nil
}
