package matchhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers defines the match event handlers.
type Handlers interface {
	HandleDraftCompleted(msg *message.Message) ([]*message.Message, error)
	HandleReportRequest(msg *message.Message) ([]*message.Message, error)
	HandleModerateRequest(msg *message.Message) ([]*message.Message, error)
}
