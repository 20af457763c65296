package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// RenderState is the state stamped onto commands as they are emitted.
// Exactly one RenderState is live per context; PoseStack saves and
// restores it.
type RenderState struct {
	Color      Color
	ArrowColor Color
	ArrowSize  float32
	TextScale  float32
	Flags      RenderFlags

	// Pose is the global pose applied to every subsequent command.
	Pose mgl32.Mat4

	// Group is the active draw group, NoGroup if none.
	Group GroupID
	// groupBase is the global pose at the time Group began; it is
	// restored when the group ends.
	groupBase mgl32.Mat4
}

// header stamps the state onto a command header.
func (s *RenderState) header() Header {
	return Header{
		Group:      s.Group,
		Pose:       s.Pose,
		Color:      s.Color,
		ArrowColor: s.ArrowColor,
		ArrowSize:  s.ArrowSize,
		TextScale:  s.TextScale,
		Flags:      s.Flags,
	}
}

// PoseStack holds the live RenderState and the saved copies below it.
// The zero value is not usable; see NewPoseStack.
//
// PoseStack is not safe for concurrent use.
type PoseStack struct {
	cur   RenderState
	saved []RenderState
}

// NewPoseStack returns a stack whose live state is initial with an
// identity pose and no active group.
func NewPoseStack(initial RenderState) *PoseStack {
	initial.Pose = mgl32.Ident4()
	initial.Group = NoGroup
	initial.groupBase = mgl32.Ident4()
	return &PoseStack{
		cur:   initial,
		saved: make([]RenderState, 0, 8),
	}
}

// State returns a copy of the live state.
func (s *PoseStack) State() RenderState {
	return s.cur
}

// SetPose replaces the global pose.
func (s *PoseStack) SetPose(m mgl32.Mat4) {
	s.cur.Pose = m
}

// SetPosition replaces the translation of the global pose, keeping its
// rotation.
func (s *PoseStack) SetPosition(p mgl32.Vec3) {
	s.cur.Pose[12], s.cur.Pose[13], s.cur.Pose[14] = p[0], p[1], p[2]
}

// SetOrientation replaces the rotation of the global pose, keeping its
// translation.
func (s *PoseStack) SetOrientation(q mgl32.Quat) {
	m := q.Normalize().Mat4()
	m[12], m[13], m[14] = s.cur.Pose[12], s.cur.Pose[13], s.cur.Pose[14]
	s.cur.Pose = m
}

// Pose returns the global pose. The value is a copy; later mutations of
// the stack do not affect it.
func (s *PoseStack) Pose() mgl32.Mat4 {
	return s.cur.Pose
}

// Push saves the live state.
func (s *PoseStack) Push() {
	s.saved = append(s.saved, s.cur)
}

// Pop restores the most recently pushed state. It reports false and
// leaves the live state untouched when nothing was pushed.
func (s *PoseStack) Pop() bool {
	if len(s.saved) == 0 {
		return false
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return true
}

// Depth returns the number of saved states.
func (s *PoseStack) Depth() int {
	return len(s.saved)
}

// beginGroup activates id and remembers the pose to restore on end.
// An already active group is ended first.
func (s *PoseStack) beginGroup(id GroupID) {
	s.endGroup()
	s.cur.Group = id
	s.cur.groupBase = s.cur.Pose
}

// endGroup clears the active group and restores the pose it began with.
func (s *PoseStack) endGroup() {
	if s.cur.Group == NoGroup {
		return
	}
	s.cur.Pose = s.cur.groupBase
	s.cur.Group = NoGroup
	s.cur.groupBase = mgl32.Ident4()
}

// forgetGroup ends id if it is active and detaches it from the saved
// states. Used when a group is released.
func (s *PoseStack) forgetGroup(id GroupID) {
	if s.cur.Group == id {
		s.endGroup()
	}
	for i := range s.saved {
		if s.saved[i].Group == id {
			s.saved[i].Group = NoGroup
		}
	}
}
