package protocol

import "time"

// NewPing creates a ping message.
func NewPing() *Message {
	return &Message{Type: TypePing, Timestamp: time.Now().UnixMilli()}
}

// NewPong creates a pong message in response to a ping.
func NewPong() *Message {
	return &Message{Type: TypePong, Timestamp: time.Now().UnixMilli()}
}

// Age returns how long ago the message was stamped.
// Returns 0 for messages without a timestamp.
func (m *Message) Age() time.Duration {
	if m.Timestamp == 0 {
		return 0
	}
	return time.Since(time.UnixMilli(m.Timestamp))
}
