package queueservice

import (
	"context"
	"time"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/results"
)

// JoinResult reports a successful queue join.
type JoinResult struct {
	State    *queuedomain.QueueState
	Position int
}

// LeaveResult reports a successful queue leave.
type LeaveResult struct {
	Mode  sharedtypes.GameMode
	Entry queuedomain.QueueEntry
}

// PeekFullResult carries the head of a queue that has reached target size.
// Entries is nil while the queue is short.
type PeekFullResult struct {
	Full    bool
	Entries []queuedomain.QueueEntry
}

// ClearResult reports the queue state after matched entries were removed.
type ClearResult struct {
	State *queuedomain.QueueState
}

// PruneResult maps each mode to the entries swept from it.
type PruneResult struct {
	Removed map[sharedtypes.GameMode][]queuedomain.QueueEntry
}

// Service is the queue module's application surface.
type Service interface {
	Join(ctx context.Context, mode sharedtypes.GameMode, entry queuedomain.QueueEntry) (results.OperationResult[JoinResult, sharedtypes.Failure], error)
	Leave(ctx context.Context, playerID sharedtypes.PlayerID) (results.OperationResult[LeaveResult, sharedtypes.Failure], error)
	PeekFull(ctx context.Context, mode sharedtypes.GameMode) (results.OperationResult[PeekFullResult, sharedtypes.Failure], error)
	Clear(ctx context.Context, mode sharedtypes.GameMode, playerIDs []sharedtypes.PlayerID) (results.OperationResult[ClearResult, sharedtypes.Failure], error)
	PruneStale(ctx context.Context, timeout time.Duration) (results.OperationResult[PruneResult, sharedtypes.Failure], error)
}
