package hubprotocol

import (
	"encoding/json"
	"fmt"
)

// RegisterPayload is sent by a client immediately after the socket opens.
type RegisterPayload struct {
	DeviceID   string     `json:"device_id" validate:"required"`
	DeviceType DeviceType `json:"device_type" validate:"required"`
	DeviceName string     `json:"device_name,omitempty"`
}

// RegisterAckPayload is the hub's reply to a successful registration.
type RegisterAckPayload struct {
	DeviceID         string `json:"device_id"`
	ConnectedDevices int    `json:"connected_devices"`
}

// NewOrderPayload announces a freshly created ticket to KDS and queue devices.
type NewOrderPayload struct {
	TicketID      string          `json:"ticket_id"`
	TicketNumber  string          `json:"ticket_number"`
	TokenNumber   int             `json:"token_number"`
	LocationID    string          `json:"location_id"`
	OrderModeName string          `json:"order_mode_name"`
	Items         json.RawMessage `json:"items,omitempty"`
	TotalAmount   float64         `json:"total_amount"`
	Source        string          `json:"source,omitempty"`
}

// OrderReadyPayload is sent by a KDS device when a kitchen ticket is done.
type OrderReadyPayload struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	TokenNumber  int    `json:"token_number"`
}

// TokenCalledPayload advances a queue token to CALLED on queue displays.
type TokenCalledPayload struct {
	TicketID    string `json:"ticket_id"`
	TokenNumber int    `json:"token_number"`
}

// TokenServedPayload advances a queue token to SERVED on queue displays.
type TokenServedPayload struct {
	TicketID    string `json:"ticket_id"`
	TokenNumber int    `json:"token_number"`
}

// DecodePayload unmarshals the envelope payload into the concrete variant
// for its message_type. Unknown types return an error so callers cannot
// silently handle an untyped blob.
func DecodePayload(msg *Message) (any, error) {
	switch msg.MessageType {
	case MsgTypeRegister:
		return decodeAs[RegisterPayload](msg)
	case MsgTypeRegisterAck:
		return decodeAs[RegisterAckPayload](msg)
	case MsgTypeNewOrder, MsgTypeOrderCreated:
		return decodeAs[NewOrderPayload](msg)
	case MsgTypeOrderReady:
		return decodeAs[OrderReadyPayload](msg)
	case MsgTypeTokenCalled, MsgTypeQueueCall:
		return decodeAs[TokenCalledPayload](msg)
	case MsgTypeTokenServed, MsgTypeQueueServed:
		return decodeAs[TokenServedPayload](msg)
	default:
		return nil, fmt.Errorf("no payload shape for message_type %q", msg.MessageType)
	}
}

func decodeAs[T any](msg *Message) (*T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return &v, nil
	}
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", msg.MessageType, err)
	}
	return &v, nil
}
