// Package lobbydomain holds the pure lobby state machine: status transition
// rules and slot normalization. Nothing here touches storage.
package lobbydomain

// Status is the lobby lifecycle state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusDrafting  Status = "drafting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusScrubbed  Status = "scrubbed"
)

// transitions is the explicit edge table. Invalid transitions are rejected,
// never coerced.
var transitions = map[Status][]Status{
	StatusOpen:     {StatusDrafting, StatusCancelled, StatusScrubbed},
	StatusDrafting: {StatusActive, StatusCancelled, StatusScrubbed},
	StatusActive:   {StatusCompleted, StatusCancelled, StatusScrubbed},
	// Terminal states have no outgoing edges.
	StatusCompleted: {},
	StatusCancelled: {},
	StatusScrubbed:  {},
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusScrubbed
}

// IsValid reports whether the status is a known lifecycle state.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
