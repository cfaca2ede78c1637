package ratinghandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers defines the rating event handlers.
type Handlers interface {
	HandleLeaderboardRequest(msg *message.Message) ([]*message.Message, error)
}
