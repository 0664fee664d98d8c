package pose

import (
	"fmt"
	"strconv"

	"github.com/formsense/go-formcoach/pkg/protocol"
)

// FrameFromLandmarks converts a landmark payload into a Frame.
// Unparseable joint keys are skipped rather than failing the frame.
func FrameFromLandmarks(d *protocol.LandmarkData) Frame {
	frame := make(Frame, len(d.Joints))
	for key, xy := range d.Joints {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		frame[Joint(idx)] = Point{X: xy[0], Y: xy[1]}
	}
	return frame
}

// LandmarksFromFrame builds a landmark payload from a Frame.
// Used by replay tooling and tests.
func LandmarksFromFrame(frameID uint64, frame Frame) *protocol.LandmarkData {
	joints := make(map[string][2]float64, len(frame))
	for joint, pt := range frame {
		joints[strconv.Itoa(int(joint))] = [2]float64{pt.X, pt.Y}
	}
	return &protocol.LandmarkData{FrameID: frameID, Joints: joints}
}

// decodeLandmarks parses a wire message and extracts the landmark frame.
func decodeLandmarks(data []byte) (uint64, Frame, error) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return 0, nil, err
	}
	if msg.Type != protocol.TypeLandmarks {
		return 0, nil, fmt.Errorf("pose: unexpected message type %q", msg.Type)
	}
	var payload protocol.LandmarkData
	if err := msg.ParseData(&payload); err != nil {
		return 0, nil, fmt.Errorf("pose: parse landmarks: %w", err)
	}
	return payload.FrameID, FrameFromLandmarks(&payload), nil
}
