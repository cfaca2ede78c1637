package lobbyservice

import (
	"context"
	"errors"

	lobbydomain "github.com/open-civ-league/league-bot/app/modules/lobby/domain"
	queuestorage "github.com/open-civ-league/league-bot/app/modules/queue/infrastructure/storage"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// LobbyResult carries the lobby state after a successful operation.
type LobbyResult struct {
	State *lobbydomain.LobbyState
	// Written is false when the operation was a recognized no-op and the
	// store was not touched.
	Written bool
}

// FormMatchResult reports the outcome of a match-formation attempt.
type FormMatchResult struct {
	// Formed is false when the queue had not reached target size.
	Formed  bool
	MatchID sharedtypes.MatchID
	State   *lobbydomain.LobbyState
	Seats   []sharedtypes.DraftSeat
}

// Service is the lobby module's application surface.
type Service interface {
	Create(ctx context.Context, mode sharedtypes.GameMode, hostID sharedtypes.PlayerID, channel sharedtypes.ChannelBinding) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	Get(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	AttachMatch(ctx context.Context, mode sharedtypes.GameMode, matchID sharedtypes.MatchID) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	SetStatus(ctx context.Context, mode sharedtypes.GameMode, next lobbydomain.Status) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	SetSlots(ctx context.Context, mode sharedtypes.GameMode, slots []sharedtypes.PlayerID) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	SetDraftConfig(ctx context.Context, mode sharedtypes.GameMode, cfg sharedtypes.DraftTimerConfig) (results.OperationResult[LobbyResult, sharedtypes.Failure], error)
	FormMatch(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[FormMatchResult, sharedtypes.Failure], error)
	Delete(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[bool, sharedtypes.Failure], error)
}

func isQueueNotFound(err error) bool {
	return errors.Is(err, queuestorage.ErrNotFound)
}
