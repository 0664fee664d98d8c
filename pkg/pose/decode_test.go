package pose

import (
	"testing"

	"github.com/formsense/go-formcoach/pkg/protocol"
)

func TestFrameFromLandmarks(t *testing.T) {
	data := &protocol.LandmarkData{
		FrameID: 7,
		Joints: map[string][2]float64{
			"11":  {0.1, 0.2},
			"13":  {0.3, 0.4},
			"bad": {9, 9},
		},
	}

	frame := FrameFromLandmarks(data)

	if got := frame[RightShoulder]; got != (Point{X: 0.1, Y: 0.2}) {
		t.Errorf("RightShoulder = %+v", got)
	}
	if got := frame[RightElbow]; got != (Point{X: 0.3, Y: 0.4}) {
		t.Errorf("RightElbow = %+v", got)
	}
	if len(frame) != 2 {
		t.Errorf("len(frame) = %d, want 2 (unparseable key skipped)", len(frame))
	}
}

func TestDecodeLandmarks(t *testing.T) {
	original := Frame{
		RightShoulder: {X: 1, Y: 2},
		RightElbow:    {X: 3, Y: 4},
	}

	msg, err := protocol.NewMessage(protocol.TypeLandmarks, LandmarksFromFrame(42, original))
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	frameID, frame, err := decodeLandmarks(raw)
	if err != nil {
		t.Fatalf("decodeLandmarks: %v", err)
	}
	if frameID != 42 {
		t.Errorf("frameID = %d, want 42", frameID)
	}
	if frame[RightElbow] != original[RightElbow] {
		t.Errorf("RightElbow = %+v, want %+v", frame[RightElbow], original[RightElbow])
	}
}

func TestDecodeLandmarksRejectsWrongType(t *testing.T) {
	msg := protocol.NewPing()
	raw, _ := msg.Bytes()

	if _, _, err := decodeLandmarks(raw); err == nil {
		t.Error("expected error for non-landmark message")
	}

	if _, _, err := decodeLandmarks([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
