package lobbydomain

import (
	"time"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// EmptySlot marks an unoccupied lobby position.
const EmptySlot = sharedtypes.PlayerID("")

// LobbyState is the single lobby for a mode. The revision counter is
// advisory: it increments on every successful mutation and is logged to make
// races observable, but correctness comes from the hot-key coordinator
// serializing lobby operations.
type LobbyState struct {
	Mode        sharedtypes.GameMode         `json:"mode"`
	Status      Status                       `json:"status"`
	HostID      sharedtypes.PlayerID         `json:"host_id"`
	Channel     sharedtypes.ChannelBinding   `json:"channel"`
	MatchID     *sharedtypes.MatchID         `json:"match_id,omitempty"`
	Slots       []sharedtypes.PlayerID       `json:"slots"`
	DraftConfig sharedtypes.DraftTimerConfig `json:"draft_config"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
	Revision    int64                        `json:"revision"`
}

// NewLobbyState initializes a lobby with the host in slot 0.
func NewLobbyState(mode sharedtypes.GameMode, maxPlayers int, hostID sharedtypes.PlayerID, channel sharedtypes.ChannelBinding, now time.Time) *LobbyState {
	slots := make([]sharedtypes.PlayerID, maxPlayers)
	slots[0] = hostID
	return &LobbyState{
		Mode:      mode,
		Status:    StatusOpen,
		HostID:    hostID,
		Channel:   channel,
		Slots:     slots,
		CreatedAt: now,
		UpdatedAt: now,
		Revision:  1,
	}
}

// Clone returns a deep copy of the state.
func (l *LobbyState) Clone() *LobbyState {
	next := *l
	next.Slots = make([]sharedtypes.PlayerID, len(l.Slots))
	copy(next.Slots, l.Slots)
	if l.MatchID != nil {
		id := *l.MatchID
		next.MatchID = &id
	}
	return &next
}

// Bump advances the revision and update time. Call only on states about to
// be written.
func (l *LobbyState) Bump(now time.Time) {
	l.Revision++
	l.UpdatedAt = now
}

// OccupiedSlots returns the non-empty slot assignments in order.
func (l *LobbyState) OccupiedSlots() []sharedtypes.PlayerID {
	var out []sharedtypes.PlayerID
	for _, id := range l.Slots {
		if id != EmptySlot {
			out = append(out, id)
		}
	}
	return out
}
