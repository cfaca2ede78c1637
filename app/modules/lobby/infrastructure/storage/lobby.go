// Package lobbystorage keeps lobby state in the KV router under the hot
// lobby: prefix, one key per mode.
package lobbystorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/kv"
)

const lobbyKeyPrefix = "lobby:mode:"

// ErrNotFound indicates no lobby exists for the mode.
var ErrNotFound = errors.New("lobby not found")

// Storage persists lobby state.
type Storage interface {
	Get(ctx context.Context, mode sharedtypes.GameMode) (*lobbydomain.LobbyState, error)
	Put(ctx context.Context, state *lobbydomain.LobbyState) error
	Delete(ctx context.Context, mode sharedtypes.GameMode) error
}

// KVStorage implements Storage over a kv.Store.
type KVStorage struct {
	store kv.Store
}

func NewKVStorage(store kv.Store) *KVStorage {
	return &KVStorage{store: store}
}

func lobbyKey(mode sharedtypes.GameMode) string {
	return lobbyKeyPrefix + string(mode)
}

func (s *KVStorage) Get(ctx context.Context, mode sharedtypes.GameMode) (*lobbydomain.LobbyState, error) {
	raw, err := s.store.Get(ctx, lobbyKey(mode))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lobby state: %w", err)
	}

	var state lobbydomain.LobbyState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lobby state: %w", err)
	}
	return &state, nil
}

func (s *KVStorage) Put(ctx context.Context, state *lobbydomain.LobbyState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby state: %w", err)
	}
	if err := s.store.Put(ctx, lobbyKey(state.Mode), raw, 0); err != nil {
		return fmt.Errorf("failed to put lobby state: %w", err)
	}
	return nil
}

func (s *KVStorage) Delete(ctx context.Context, mode sharedtypes.GameMode) error {
	if err := s.store.Delete(ctx, lobbyKey(mode)); err != nil {
		return fmt.Errorf("failed to delete lobby state: %w", err)
	}
	return nil
}
