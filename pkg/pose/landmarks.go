package pose

// Joint indexes a body landmark. Values follow the MediaPipe Pose numbering
// so frames from a MediaPipe-based estimator can be passed through unchanged.
type Joint int

// Joints used by the dual-limb curl tracker.
const (
	RightShoulder Joint = 11
	LeftShoulder  Joint = 12
	RightElbow    Joint = 13
	LeftElbow     Joint = 14
	RightWrist    Joint = 15
	LeftWrist     Joint = 16
	RightHip      Joint = 23
	LeftHip       Joint = 24
)

// Side identifies a tracked limb.
type Side int

const (
	Right Side = iota
	Left
)

// NumSides is the number of tracked limbs.
const NumSides = 2

// String returns "right" or "left".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Frame is one frame of landmark data keyed by joint index.
// A missing joint reads as the zero Point, which downstream angle math
// treats as degenerate.
type Frame map[Joint]Point

// ArmJoints groups the joints of one arm.
type ArmJoints struct {
	Shoulder Joint
	Elbow    Joint
	Wrist    Joint
	Hip      Joint
}

// Arm returns the joint set for the given side.
func Arm(s Side) ArmJoints {
	if s == Left {
		return ArmJoints{Shoulder: LeftShoulder, Elbow: LeftElbow, Wrist: LeftWrist, Hip: LeftHip}
	}
	return ArmJoints{Shoulder: RightShoulder, Elbow: RightElbow, Wrist: RightWrist, Hip: RightHip}
}

// FlexionAngle returns the shoulder-elbow-wrist angle for side s.
// This is the angle that drives rep counting.
func (f Frame) FlexionAngle(s Side) float64 {
	j := Arm(s)
	return Angle(f[j.Shoulder], f[j.Elbow], f[j.Wrist])
}

// DriftAngle returns the elbow-shoulder-hip angle for side s.
// This drives the misalignment warning only, never counting.
func (f Frame) DriftAngle(s Side) float64 {
	j := Arm(s)
	return Angle(f[j.Elbow], f[j.Shoulder], f[j.Hip])
}

// HasArm reports whether all four joints of side s are present.
func (f Frame) HasArm(s Side) bool {
	j := Arm(s)
	for _, joint := range []Joint{j.Shoulder, j.Elbow, j.Wrist, j.Hip} {
		if _, ok := f[joint]; !ok {
			return false
		}
	}
	return true
}
