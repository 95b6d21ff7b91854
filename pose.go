package tetra

import "strconv"

// PoseKind distinguishes swim-cycle poses from turn poses.
type PoseKind uint8

const (
	PoseSwim PoseKind = iota // looping swim frame for a facing
	PoseTurn                 // fixed yaw angle shown while turning
)

// PoseKey identifies a sprite to draw. It is resolved to an image through
// the AssetStore at draw time, so it never holds a reference to pixel data.
//
// Yaw is measured in degrees around the vertical axis: 0 is front-on,
// 90 is the right profile, 180 is tail-on and 270 is the left profile.
type PoseKey struct {
	Kind   PoseKind
	Facing Facing // PoseSwim only
	Frame  int    // PoseSwim only
	Yaw    int    // PoseTurn only
}

// SwimPose returns the swim-cycle pose for a facing and frame index.
func SwimPose(f Facing, frame int) PoseKey {
	return PoseKey{Kind: PoseSwim, Facing: f, Frame: frame}
}

// TurnPose returns the turn pose for a yaw in degrees.
func TurnPose(yaw int) PoseKey {
	return PoseKey{Kind: PoseTurn, Yaw: normalizeYaw(yaw)}
}

// Name returns the asset name of the pose, e.g. "swim_left_3" or "turn_315".
func (k PoseKey) Name() string {
	if k.Kind == PoseTurn {
		return "turn_" + strconv.Itoa(k.Yaw)
	}
	return "swim_" + k.Facing.String() + "_" + strconv.Itoa(k.Frame)
}

func (k PoseKey) String() string {
	return k.Name()
}

// profileYaw is the yaw of the side profile for a facing.
func profileYaw(f Facing) int {
	if f == FacingRight {
		return 90
	}
	return 270
}

// turnSequence lists the poses of a half turn away from start, evenly
// spaced over 180 degrees. The front route sweeps through yaw 0, the
// alternate route through yaw 180. The sequence from the opposite facing on
// the same route is the exact reverse.
func turnSequence(start Facing, steps int, alternate bool) []PoseKey {
	// From the left profile the front route increases yaw (270 -> 360);
	// from the right profile it decreases (90 -> 0).
	dir := 1
	if start == FacingRight {
		dir = -1
	}
	if alternate {
		dir = -dir
	}
	seq := make([]PoseKey, steps)
	from := profileYaw(start)
	for i := range seq {
		seq[i] = TurnPose(from + dir*180*i/(steps-1))
	}
	return seq
}

func normalizeYaw(yaw int) int {
	yaw %= 360
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}
