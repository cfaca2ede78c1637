package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// NewMessage marshals a payload into a watermill message with a fresh UUID.
func NewMessage(payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), data), nil
}

// NewResultMessage builds a response message carrying the original message's
// correlation id so callers can match replies to requests.
func NewResultMessage(original *message.Message, payload any) (*message.Message, error) {
	msg, err := NewMessage(payload)
	if err != nil {
		return nil, err
	}
	middleware.SetCorrelationID(middleware.MessageCorrelationID(original), msg)
	return msg, nil
}

// UnmarshalPayload decodes a message body into target.
func UnmarshalPayload(msg *message.Message, target any) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
