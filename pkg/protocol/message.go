// Package protocol defines the WebSocket message types exchanged between the
// pose-estimation collaborator, the coach service, and dashboard clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Pose collaborator → coach messages
	TypeLandmarks MessageType = "landmarks" // Per-frame joint positions

	// Coach → dashboard messages
	TypeStatus   MessageType = "status"   // Session status snapshot
	TypeFeedback MessageType = "feedback" // Spoken coaching event
	TypeResult   MessageType = "result"   // Aggregate workout result

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Pose collaborator → coach
// =============================================================================

// LandmarkData carries one frame of joint positions.
// Joints are keyed by their MediaPipe Pose index as a decimal string
// (JSON objects cannot have integer keys).
type LandmarkData struct {
	FrameID uint64                `json:"frame_id,omitempty"`
	Width   int                   `json:"width,omitempty"`  // Source frame width, 0 for normalized coords
	Height  int                   `json:"height,omitempty"` // Source frame height, 0 for normalized coords
	Joints  map[string][2]float64 `json:"joints"`
}

// =============================================================================
// Coach → dashboard
// =============================================================================

// LimbStatus is the per-limb slice of a status snapshot.
type LimbStatus struct {
	Side    string  `json:"side"`
	Stage   string  `json:"stage"`
	Reps    int     `json:"reps"`
	Angle   float64 `json:"angle"`
	Warning string  `json:"warning,omitempty"`
}

// StatusData is the session status broadcast to dashboard clients.
type StatusData struct {
	SessionID     string       `json:"session_id"`
	Exercise      string       `json:"exercise"`
	Mode          string       `json:"mode"`
	Limbs         []LimbStatus `json:"limbs"`
	Faults        []string     `json:"faults,omitempty"`
	CorrectStreak int          `json:"correct_streak"`
	ReadyToStart  bool         `json:"ready_to_start"`
	CurrentSet    int          `json:"current_set"`
	GoalSets      int          `json:"goal_sets"`
	GoalReps      int          `json:"goal_reps"`
}

// FeedbackData describes a coaching utterance that was dispatched.
type FeedbackData struct {
	Text     string `json:"text"`
	Class    string `json:"class"`
	Priority bool   `json:"priority"`
}

// ResultData is the aggregate workout result for the persistence collaborator.
type ResultData struct {
	SessionID       string `json:"session_id"`
	Exercise        string `json:"exercise"`
	SetsCompleted   int    `json:"sets_completed"`
	TotalReps       int    `json:"total_reps"`
	DurationSeconds int    `json:"duration_seconds"`
}
