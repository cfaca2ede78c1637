package lobbydomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

func queued(ids ...string) []queuedomain.QueueEntry {
	out := make([]queuedomain.QueueEntry, len(ids))
	for i, id := range ids {
		out[i] = queuedomain.QueueEntry{PlayerID: sharedtypes.PlayerID(id)}
	}
	return out
}

func slots(ids ...string) []sharedtypes.PlayerID {
	out := make([]sharedtypes.PlayerID, len(ids))
	for i, id := range ids {
		out[i] = sharedtypes.PlayerID(id)
	}
	return out
}

func TestNormalizeSlots(t *testing.T) {
	tests := []struct {
		name       string
		maxPlayers int
		raw        []sharedtypes.PlayerID
		queue      []queuedomain.QueueEntry
		want       []sharedtypes.PlayerID
	}{
		{
			name:       "clears departed players",
			maxPlayers: 4,
			raw:        slots("a", "gone", "b", ""),
			queue:      queued("a", "b"),
			want:       slots("a", "", "b", ""),
		},
		{
			name:       "dedups keeping first occurrence",
			maxPlayers: 4,
			raw:        slots("a", "a", "b", "a"),
			queue:      queued("a", "b"),
			want:       slots("a", "", "b", ""),
		},
		{
			name:       "pads short input to fixed length",
			maxPlayers: 4,
			raw:        slots("a"),
			queue:      queued("a"),
			want:       slots("a", "", "", ""),
		},
		{
			name:       "truncates overlong input",
			maxPlayers: 2,
			raw:        slots("a", "b", "c"),
			queue:      queued("a", "b", "c"),
			want:       slots("a", "b"),
		},
		{
			name:       "empty queue clears everything",
			maxPlayers: 3,
			raw:        slots("a", "b", "c"),
			queue:      nil,
			want:       slots("", "", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSlots(tt.maxPlayers, tt.raw, tt.queue)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestNormalizeSlots_Pure(t *testing.T) {
	raw := slots("a", "b")
	q := queued("a")
	_ = NormalizeSlots(2, raw, q)
	assert.Equal(t, slots("a", "b"), raw, "input slice must not be mutated")
}
