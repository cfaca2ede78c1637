// Package matchstorage keeps the activity map: short-lived convenience keys
// under the hot activity: prefix that route chat interactions (reactions,
// button presses) to the match they concern. The map is a cache over the
// ledger and can be rebuilt at any time.
package matchstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/kv"
)

const (
	playerKeyPrefix  = "activity:player:"
	channelKeyPrefix = "activity:channel:"

	// Entries outlive the longest plausible match by a margin; anything
	// stale is simply re-resolved from the ledger.
	defaultTTL = 12 * time.Hour
)

// ErrNotFound indicates no activity mapping exists for the key.
var ErrNotFound = errors.New("activity mapping not found")

// ActivityMap is the KV-backed implementation.
type ActivityMap struct {
	store kv.Store
	ttl   time.Duration
}

func NewActivityMap(store kv.Store) *ActivityMap {
	return &ActivityMap{store: store, ttl: defaultTTL}
}

// Bind records the match for every player and the lobby channel in one batch.
func (a *ActivityMap) Bind(ctx context.Context, matchID sharedtypes.MatchID, channelID string, playerIDs []sharedtypes.PlayerID) error {
	entries := make([]kv.Entry, 0, len(playerIDs)+1)
	if channelID != "" {
		entries = append(entries, kv.Entry{
			Key:   channelKeyPrefix + channelID,
			Value: []byte(matchID),
			TTL:   a.ttl,
		})
	}
	for _, id := range playerIDs {
		entries = append(entries, kv.Entry{
			Key:   playerKeyPrefix + string(id),
			Value: []byte(matchID),
			TTL:   a.ttl,
		})
	}
	if err := a.store.PutMulti(ctx, entries); err != nil {
		return fmt.Errorf("failed to bind activity for match %s: %w", matchID, err)
	}
	return nil
}

// Unbind drops the mappings once the match reaches a terminal state.
func (a *ActivityMap) Unbind(ctx context.Context, channelID string, playerIDs []sharedtypes.PlayerID) error {
	keys := make([]string, 0, len(playerIDs)+1)
	if channelID != "" {
		keys = append(keys, channelKeyPrefix+channelID)
	}
	for _, id := range playerIDs {
		keys = append(keys, playerKeyPrefix+string(id))
	}
	if err := a.store.DeleteMulti(ctx, keys); err != nil {
		return fmt.Errorf("failed to unbind activity: %w", err)
	}
	return nil
}

// MatchForPlayer resolves the match a player is currently in.
func (a *ActivityMap) MatchForPlayer(ctx context.Context, playerID sharedtypes.PlayerID) (sharedtypes.MatchID, error) {
	return a.lookup(ctx, playerKeyPrefix+string(playerID))
}

// MatchForChannel resolves the match bound to a chat channel.
func (a *ActivityMap) MatchForChannel(ctx context.Context, channelID string) (sharedtypes.MatchID, error) {
	return a.lookup(ctx, channelKeyPrefix+channelID)
}

func (a *ActivityMap) lookup(ctx context.Context, key string) (sharedtypes.MatchID, error) {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve activity mapping: %w", err)
	}
	return sharedtypes.MatchID(raw), nil
}
