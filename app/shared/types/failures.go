package sharedtypes

import "fmt"

// FailureCode enumerates the expected business-failure conditions. These are
// returned to callers in the failure arm of an operation result, never as Go
// errors; the surrounding layer maps each code to a short user message.
type FailureCode string

const (
	FailureAlreadyQueued     FailureCode = "ALREADY_QUEUED"
	FailureQueueFull         FailureCode = "QUEUE_FULL"
	FailureInvalidTransition FailureCode = "INVALID_TRANSITION"
	FailureNotFound          FailureCode = "NOT_FOUND"
	FailureInvalidState      FailureCode = "INVALID_STATE"
	FailureMissingPlacement  FailureCode = "MISSING_PLACEMENT"
	FailureNotPermitted      FailureCode = "NOT_PERMITTED"
	FailureAckTimeout        FailureCode = "ACK_TIMEOUT"
)

// Failure is the typed business-failure payload.
type Failure struct {
	Code   FailureCode `json:"code"`
	Reason string      `json:"reason"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Reason)
}

// NewFailure builds a failure with a formatted reason.
func NewFailure(code FailureCode, format string, args ...any) Failure {
	return Failure{Code: code, Reason: fmt.Sprintf(format, args...)}
}
