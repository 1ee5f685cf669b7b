// Package hubprotocol defines the wire protocol spoken between the POS hub
// and peripheral devices (KDS, queue display, kiosk).
//
// Messages are JSON envelopes with a message_type discriminator. Payload
// shapes are typed per message_type; unknown types are rejected at decode
// time rather than passed through untyped.
package hubprotocol

import (
	"encoding/json"
	"fmt"
)

// Message type discriminators.
const (
	MsgTypeRegister    = "register"
	MsgTypeRegisterAck = "register_ack"
	MsgTypeNewOrder    = "new_order"
	// MsgTypeOrderCreated is an alias of new_order kept for queue displays
	// that predate the unified message name.
	MsgTypeOrderCreated = "order_created"
	MsgTypeOrderReady   = "order_ready"
	MsgTypeTokenCalled  = "token_called"
	MsgTypeQueueCall    = "queue_call"
	MsgTypeTokenServed  = "token_served"
	MsgTypeQueueServed  = "queue_served"
)

// DeviceType identifies the kind of device on the wire.
type DeviceType string

const (
	DeviceTypePOS     DeviceType = "POS"
	DeviceTypeKDS     DeviceType = "KDS"
	DeviceTypeQueue   DeviceType = "QUEUE"
	DeviceTypeKiosk   DeviceType = "KIOSK"
	DeviceTypePrinter DeviceType = "PRINTER"
)

// IsValid reports whether the device type is a known variant.
func (t DeviceType) IsValid() bool {
	switch t {
	case DeviceTypePOS, DeviceTypeKDS, DeviceTypeQueue, DeviceTypeKiosk, DeviceTypePrinter:
		return true
	}
	return false
}

// Message is the wire-level envelope. Payload stays raw until the receiver
// decodes it against the shape registered for MessageType.
type Message struct {
	MessageType string          `json:"message_type"`
	DeviceID    string          `json:"device_id,omitempty"`
	DeviceType  DeviceType      `json:"device_type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Timestamp   int64           `json:"timestamp,omitempty"`
}

// NewMessage builds an envelope with a marshaled payload.
func NewMessage(msgType string, deviceID string, deviceType DeviceType, payload any) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		raw = data
	}
	return &Message{
		MessageType: msgType,
		DeviceID:    deviceID,
		DeviceType:  deviceType,
		Payload:     raw,
	}, nil
}

// Decode parses a raw frame into a Message. The message_type must be one of
// the known discriminators.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if !knownMessageType(msg.MessageType) {
		return nil, fmt.Errorf("unknown message_type %q", msg.MessageType)
	}
	return &msg, nil
}

func knownMessageType(t string) bool {
	switch t {
	case MsgTypeRegister, MsgTypeRegisterAck,
		MsgTypeNewOrder, MsgTypeOrderCreated, MsgTypeOrderReady,
		MsgTypeTokenCalled, MsgTypeQueueCall,
		MsgTypeTokenServed, MsgTypeQueueServed:
		return true
	}
	return false
}
