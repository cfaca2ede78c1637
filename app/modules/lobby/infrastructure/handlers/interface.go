package lobbyhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers defines the lobby event handlers.
type Handlers interface {
	HandleCreateRequest(msg *message.Message) ([]*message.Message, error)
	HandleStatusRequest(msg *message.Message) ([]*message.Message, error)
	HandleSlotsRequest(msg *message.Message) ([]*message.Message, error)
	HandleDraftConfigRequest(msg *message.Message) ([]*message.Message, error)
	HandleFormMatchRequest(msg *message.Message) ([]*message.Message, error)
	HandleQueueMatchReady(msg *message.Message) ([]*message.Message, error)
}
