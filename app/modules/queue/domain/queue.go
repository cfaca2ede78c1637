// Package queuedomain holds the pure queue state logic. Everything here is
// side-effect free; persistence and indexing live in the storage layer.
package queuedomain

import (
	"time"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// QueueEntry is one waiting player. Insertion order is priority.
type QueueEntry struct {
	PlayerID    sharedtypes.PlayerID `json:"player_id"`
	DisplayName string               `json:"display_name"`
	AvatarURL   string               `json:"avatar_url,omitempty"`
	JoinedAt    time.Time            `json:"joined_at"`
	Party       string               `json:"party,omitempty"`
}

// QueueState is the full waiting list for one mode.
type QueueState struct {
	Mode       sharedtypes.GameMode `json:"mode"`
	Entries    []QueueEntry         `json:"entries"`
	TargetSize int                  `json:"target_size"`
}

// Contains reports whether the player is in the queue.
func (q *QueueState) Contains(playerID sharedtypes.PlayerID) bool {
	for _, e := range q.Entries {
		if e.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Append returns a copy of the state with the entry added at the tail.
func (q *QueueState) Append(entry QueueEntry) *QueueState {
	next := q.clone()
	next.Entries = append(next.Entries, entry)
	return next
}

// Remove returns a copy with the listed players removed, preserving order.
func (q *QueueState) Remove(playerIDs []sharedtypes.PlayerID) *QueueState {
	drop := make(map[sharedtypes.PlayerID]bool, len(playerIDs))
	for _, id := range playerIDs {
		drop[id] = true
	}

	next := q.clone()
	next.Entries = next.Entries[:0]
	for _, e := range q.Entries {
		if !drop[e.PlayerID] {
			next.Entries = append(next.Entries, e)
		}
	}
	return next
}

// RemoveStale returns a copy without entries older than the cutoff, plus the
// removed entries for notification.
func (q *QueueState) RemoveStale(cutoff time.Time) (*QueueState, []QueueEntry) {
	next := q.clone()
	next.Entries = next.Entries[:0]
	var removed []QueueEntry
	for _, e := range q.Entries {
		if e.JoinedAt.Before(cutoff) {
			removed = append(removed, e)
			continue
		}
		next.Entries = append(next.Entries, e)
	}
	return next, removed
}

// Head returns the first n entries when the queue has reached n, or nil.
func (q *QueueState) Head(n int) []QueueEntry {
	if n <= 0 || len(q.Entries) < n {
		return nil
	}
	head := make([]QueueEntry, n)
	copy(head, q.Entries[:n])
	return head
}

func (q *QueueState) clone() *QueueState {
	entries := make([]QueueEntry, len(q.Entries))
	copy(entries, q.Entries)
	return &QueueState{
		Mode:       q.Mode,
		Entries:    entries,
		TargetSize: q.TargetSize,
	}
}
