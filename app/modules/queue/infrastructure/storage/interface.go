package queuestorage

import (
	"context"

	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// Storage persists queue state and the player membership index.
type Storage interface {
	GetQueue(ctx context.Context, mode sharedtypes.GameMode) (*queuedomain.QueueState, error)
	PutQueue(ctx context.Context, state *queuedomain.QueueState) error
	DeleteQueue(ctx context.Context, mode sharedtypes.GameMode) error
	ListQueues(ctx context.Context) ([]*queuedomain.QueueState, error)

	// Membership index: player -> mode, for O(1) single-queue enforcement.
	GetMemberMode(ctx context.Context, playerID sharedtypes.PlayerID) (sharedtypes.GameMode, error)
	PutMemberMode(ctx context.Context, playerID sharedtypes.PlayerID, mode sharedtypes.GameMode) error
	DeleteMemberModes(ctx context.Context, playerIDs []sharedtypes.PlayerID) error
}
