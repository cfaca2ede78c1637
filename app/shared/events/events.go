// Package sharedevents defines the NATS topics and payloads the handler
// layer speaks. Requests arrive from the chat-platform gateway; results go
// back out on the matching success/failure topics.
package sharedevents

import (
	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	ratingservice "github.com/open-civ-league/league-bot/app/modules/rating/application"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// Queue topics.
const (
	QueueJoinRequest  = "queue.join.request"
	QueueJoinSuccess  = "queue.join.success"
	QueueJoinFailure  = "queue.join.failure"
	QueueLeaveRequest = "queue.leave.request"
	QueueLeaveSuccess = "queue.leave.success"
	QueueLeaveFailure = "queue.leave.failure"
	QueuePruneRequest = "queue.prune.request"
	QueueMatchReady   = "queue.match.ready"
)

// Lobby topics.
const (
	LobbyCreateRequest      = "lobby.create.request"
	LobbyCreateSuccess      = "lobby.create.success"
	LobbyCreateFailure      = "lobby.create.failure"
	LobbyStatusRequest      = "lobby.status.request"
	LobbyStatusSuccess      = "lobby.status.success"
	LobbyStatusFailure      = "lobby.status.failure"
	LobbySlotsRequest       = "lobby.slots.request"
	LobbySlotsSuccess       = "lobby.slots.success"
	LobbySlotsFailure       = "lobby.slots.failure"
	LobbyDraftConfigRequest = "lobby.draftconfig.request"
	LobbyDraftConfigSuccess = "lobby.draftconfig.success"
	LobbyDraftConfigFailure = "lobby.draftconfig.failure"
	LobbyFormMatchRequest   = "lobby.formmatch.request"
	LobbyFormMatchSuccess   = "lobby.formmatch.success"
	LobbyFormMatchFailure   = "lobby.formmatch.failure"
)

// Match topics.
const (
	MatchDraftCompleted  = "match.draft.completed"
	MatchActivateSuccess = "match.activate.success"
	MatchActivateFailure = "match.activate.failure"
	MatchReportRequest   = "match.report.request"
	MatchReportSuccess   = "match.report.success"
	MatchReportFailure   = "match.report.failure"
	MatchModerateRequest = "match.moderate.request"
	MatchModerateSuccess = "match.moderate.success"
	MatchModerateFailure = "match.moderate.failure"
)

// Rating topics.
const (
	LeaderboardRequest = "rating.leaderboard.request"
	LeaderboardSuccess = "rating.leaderboard.success"
	LeaderboardFailure = "rating.leaderboard.failure"
)

// FailurePayload is the shared failure response body.
type FailurePayload struct {
	Failure sharedtypes.Failure `json:"failure"`
}

type QueueJoinRequestPayload struct {
	Mode        sharedtypes.GameMode `json:"mode"`
	PlayerID    sharedtypes.PlayerID `json:"player_id"`
	DisplayName string               `json:"display_name"`
	AvatarURL   string               `json:"avatar_url,omitempty"`
}

type QueueJoinSuccessPayload struct {
	Mode     sharedtypes.GameMode `json:"mode"`
	PlayerID sharedtypes.PlayerID `json:"player_id"`
	Position int                  `json:"position"`
	Size     int                  `json:"size"`
}

type QueueLeaveRequestPayload struct {
	PlayerID sharedtypes.PlayerID `json:"player_id"`
}

type QueueLeaveSuccessPayload struct {
	Mode     sharedtypes.GameMode `json:"mode"`
	PlayerID sharedtypes.PlayerID `json:"player_id"`
}

type QueueMatchReadyPayload struct {
	Mode sharedtypes.GameMode `json:"mode"`
}

type LobbyCreateRequestPayload struct {
	Mode    sharedtypes.GameMode       `json:"mode"`
	HostID  sharedtypes.PlayerID       `json:"host_id"`
	Channel sharedtypes.ChannelBinding `json:"channel"`
}

type LobbyStatusRequestPayload struct {
	Mode   sharedtypes.GameMode `json:"mode"`
	Status lobbydomain.Status   `json:"status"`
}

type LobbySlotsRequestPayload struct {
	Mode  sharedtypes.GameMode   `json:"mode"`
	Slots []sharedtypes.PlayerID `json:"slots"`
}

type LobbyDraftConfigRequestPayload struct {
	Mode   sharedtypes.GameMode         `json:"mode"`
	Config sharedtypes.DraftTimerConfig `json:"config"`
}

type LobbyFormMatchRequestPayload struct {
	Mode sharedtypes.GameMode `json:"mode"`
}

type LobbyStatePayload struct {
	State *lobbydomain.LobbyState `json:"state"`
}

type LobbyFormMatchSuccessPayload struct {
	Formed  bool                    `json:"formed"`
	MatchID sharedtypes.MatchID     `json:"match_id,omitempty"`
	Seats   []sharedtypes.DraftSeat `json:"seats,omitempty"`
}

type MatchReportRequestPayload struct {
	MatchID    sharedtypes.MatchID  `json:"match_id"`
	ReporterID sharedtypes.PlayerID `json:"reporter_id"`
	// WinnerSide is set for team matches.
	WinnerSide *sharedtypes.TeamSide `json:"winner_side,omitempty"`
	// Placements is set for explicit orderings; best first.
	Placements []sharedtypes.PlayerID `json:"placements,omitempty"`
}

// MatchModerateRequestPayload covers both moderator verbs: cancel when
// Cancel is set, otherwise resolve with the given outcome.
type MatchModerateRequestPayload struct {
	MatchID    sharedtypes.MatchID    `json:"match_id"`
	Cancel     bool                   `json:"cancel,omitempty"`
	WinnerSide *sharedtypes.TeamSide  `json:"winner_side,omitempty"`
	Placements []sharedtypes.PlayerID `json:"placements,omitempty"`
}

type MatchResultPayload struct {
	MatchID sharedtypes.MatchID `json:"match_id"`
	Status  string              `json:"status"`
}

type LeaderboardRequestPayload struct {
	Track sharedtypes.LeaderboardTrack `json:"track"`
	Limit int                          `json:"limit,omitempty"`
}

type LeaderboardSuccessPayload struct {
	Track   sharedtypes.LeaderboardTrack     `json:"track"`
	Entries []ratingservice.LeaderboardEntry `json:"entries"`
}
