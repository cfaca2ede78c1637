package matchdomain

// Status is the match ledger lifecycle. It is narrower than the lobby
// machine: a match exists only once a draft has been formed.
type Status string

const (
	StatusDrafting  Status = "drafting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the match can no longer progress on its own.
// Moderator corrections still apply to terminal matches.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
