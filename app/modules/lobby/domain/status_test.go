package lobbydomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := [][2]Status{
		{StatusOpen, StatusDrafting},
		{StatusOpen, StatusCancelled},
		{StatusOpen, StatusScrubbed},
		{StatusDrafting, StatusActive},
		{StatusDrafting, StatusCancelled},
		{StatusDrafting, StatusScrubbed},
		{StatusActive, StatusCompleted},
		{StatusActive, StatusCancelled},
		{StatusActive, StatusScrubbed},
	}
	for _, edge := range allowed {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s should be allowed", edge[0], edge[1])
	}
}

func TestCanTransition_RejectsEverythingElse(t *testing.T) {
	all := []Status{StatusOpen, StatusDrafting, StatusActive, StatusCompleted, StatusCancelled, StatusScrubbed}

	allowed := map[[2]Status]bool{}
	for _, from := range []Status{StatusOpen, StatusDrafting, StatusActive} {
		for _, to := range transitions[from] {
			allowed[[2]Status{from, to}] = true
		}
	}

	for _, from := range all {
		for _, to := range all {
			if allowed[[2]Status{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusScrubbed.IsTerminal())
	assert.False(t, StatusOpen.IsTerminal())
	assert.False(t, StatusDrafting.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}
