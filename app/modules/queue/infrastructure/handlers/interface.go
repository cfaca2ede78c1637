package queuehandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers is the queue module's event-handler surface.
type Handlers interface {
	HandleJoinRequest(msg *message.Message) ([]*message.Message, error)
	HandleLeaveRequest(msg *message.Message) ([]*message.Message, error)
	HandlePruneRequest(msg *message.Message) ([]*message.Message, error)
}
