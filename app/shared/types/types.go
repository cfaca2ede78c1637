package sharedtypes

import "time"

// PlayerID is the chat-platform identifier for a player.
type PlayerID string

func (id PlayerID) String() string { return string(id) }

// MatchID identifies a match in the ledger. UUID string.
type MatchID string

func (id MatchID) String() string { return string(id) }

// GameMode identifies a queue/lobby mode (duel, teamers, ffa, ...).
type GameMode string

func (m GameMode) String() string { return string(m) }

// LeaderboardTrack groups one or more modes into a single skill pool.
type LeaderboardTrack string

func (t LeaderboardTrack) String() string { return string(t) }

// TeamSide is the winner token for two-sided modes.
type TeamSide string

const (
	TeamSideA TeamSide = "A"
	TeamSideB TeamSide = "B"
)

// ChannelBinding ties a lobby to the chat-platform channel and message
// rendering it. Opaque to the core beyond identity.
type ChannelBinding struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// DraftTimerConfig holds the two optional draft timers, in seconds.
// A nil value means the draft room default applies.
type DraftTimerConfig struct {
	PickSeconds *int `json:"pick_seconds,omitempty"`
	BanSeconds  *int `json:"ban_seconds,omitempty"`
}

// DraftSeat is one position handed to the draft room when a match forms.
type DraftSeat struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Team        *int     `json:"team,omitempty"`
}

// DraftResult is the draft-complete payload delivered by the draft room.
type DraftResult struct {
	MatchID     MatchID              `json:"match_id"`
	Picks       map[PlayerID]string  `json:"picks"`
	Bans        []DraftBan           `json:"bans"`
	CompletedAt time.Time            `json:"completed_at"`
	Snapshot    map[string]any       `json:"snapshot,omitempty"`
}

// DraftBan records one banned leader and the seat that banned it.
type DraftBan struct {
	Leader string `json:"leader"`
	Seat   int    `json:"seat"`
}
