// Package chatplatform is the boundary to the chat service that renders
// queues and lobbies. The core never blocks its state machines on it; the
// handler layer calls it after the fact and eventual convergence via
// re-render is acceptable.
package chatplatform

import (
	"context"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// Notifier is what the handler layer needs from the chat platform.
type Notifier interface {
	// NotifyQueueTimeout tells swept players their queue entry expired.
	NotifyQueueTimeout(ctx context.Context, mode sharedtypes.GameMode, players []sharedtypes.PlayerID) error
	// RequestRerender asks the platform to redraw the lobby message.
	RequestRerender(ctx context.Context, binding sharedtypes.ChannelBinding) error
}
