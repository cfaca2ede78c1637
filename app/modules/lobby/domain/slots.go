package lobbydomain

import (
	queuedomain "github.com/open-civ-league/league-bot/app/modules/queue/domain"
	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
)

// NormalizeSlots reconciles a proposed slot array against live queue
// membership. The result has exactly maxPlayers slots; duplicated players
// keep their first slot only, and players no longer in the queue are cleared
// to empty. Pure function: every read path applies it defensively before any
// write decision.
func NormalizeSlots(maxPlayers int, raw []sharedtypes.PlayerID, queueEntries []queuedomain.QueueEntry) []sharedtypes.PlayerID {
	queued := make(map[sharedtypes.PlayerID]bool, len(queueEntries))
	for _, e := range queueEntries {
		queued[e.PlayerID] = true
	}

	out := make([]sharedtypes.PlayerID, maxPlayers)
	seen := make(map[sharedtypes.PlayerID]bool, maxPlayers)

	for i := 0; i < maxPlayers && i < len(raw); i++ {
		id := raw[i]
		if id == EmptySlot || seen[id] || !queued[id] {
			continue
		}
		out[i] = id
		seen[id] = true
	}
	return out
}
