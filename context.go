package debugdraw

import (
	"errors"
	"io"
	"slices"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/debugdraw/text"
)

// Context is an immediate-mode debug rendering context. It records draw
// calls as commands stamped with the current render state, keeps commands
// of draw groups across frames and hands finished frames to its sinks.
//
// Draw calls never fail: invalid input is replaced by safe values and
// reported through the logger and the handler installed with
// WithErrorHandler.
//
// A Context is not safe for concurrent use. Its lifetime is reference
// counted; see Acquire and Release.
type Context struct {
	cfg     Config
	sinks   []Sink
	onError func(error)
	refs    atomic.Int32

	state   *PoseStack
	groups  *DrawGroupRegistry
	camera  *CameraState
	cameras []cameraSnapshot
	palette [numDebugColors]Color

	// stream holds retained group commands followed by the commands of the
	// current frame; added holds only the latter.
	stream []Command
	added  []Command
	seq    uint64
}

type cameraSnapshot struct {
	view, projection mgl32.Mat4
}

var _ DebugRenderer = (*Context)(nil)

// New creates a context holding one reference.
//
// Example:
//
//	dc := debugdraw.New()
//	defer dc.Release()
//
//	dc.SetCurrentColor(debugdraw.RGB(255, 0, 0), debugdraw.RGB(255, 255, 0))
//	dc.DebugRay(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
//	frame := dc.EndFrame()
func New(opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		cfg:     o.config,
		sinks:   o.sinks,
		onError: o.onError,
		groups:  NewDrawGroupRegistry(),
		camera:  NewCameraState(),
		palette: defaultPalette,
	}
	c.palette[ColorDefault] = c.cfg.Color
	c.palette[ColorPoseArrows] = c.cfg.ArrowColor
	c.state = NewPoseStack(c.initialState())
	c.refs.Store(1)

	Logger().Debug("debugdraw: context created", "sinks", len(c.sinks))
	return c
}

func (c *Context) initialState() RenderState {
	return RenderState{
		Color:      c.cfg.Color,
		ArrowColor: c.cfg.ArrowColor,
		ArrowSize:  c.cfg.ArrowSize,
		TextScale:  c.cfg.TextScale,
	}
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config {
	return c.cfg
}

// Acquire adds a reference to the context.
func (c *Context) Acquire() {
	for {
		n := c.refs.Load()
		if n <= 0 {
			c.report("Acquire", ErrReleased)
			return
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// Release drops a reference. When the last reference is gone the sinks
// implementing io.Closer are closed and every later call on the context
// reports ErrReleased and does nothing.
func (c *Context) Release() {
	for {
		n := c.refs.Load()
		if n <= 0 {
			c.report("Release", ErrReleased)
			return
		}
		if c.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				c.close()
			}
			return
		}
	}
}

// Refs returns the current reference count.
func (c *Context) Refs() int {
	return int(c.refs.Load())
}

func (c *Context) close() {
	for _, s := range c.sinks {
		if cl, ok := s.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				Logger().Warn("debugdraw: closing sink failed", "err", err)
			}
		}
	}
	c.sinks = nil
	c.stream = nil
	c.added = nil
	Logger().Debug("debugdraw: context released", "frames", c.seq)
}

// live reports ErrReleased for op when the context has been released.
func (c *Context) live(op string) bool {
	if c.refs.Load() > 0 {
		return true
	}
	c.report(op, ErrReleased)
	return false
}

// report sends a diagnostic to the logger and the error handler.
func (c *Context) report(op string, err error) {
	var ge *GroupError
	if !errors.As(err, &ge) {
		err = &OpError{Op: op, Err: err}
	}
	Logger().Warn("debugdraw: diagnostic", "op", op, "err", err)
	if c.onError != nil {
		c.onError(err)
	}
}

// checked reports ErrNonFinite once if g replaced any value.
func (c *Context) checked(op string, g *guard) {
	if g.bad {
		c.report(op, ErrNonFinite)
	}
}

func (c *Context) header() Header {
	return c.state.cur.header()
}

func (c *Context) push(cmd Command) {
	c.stream = append(c.stream, cmd)
	c.added = append(c.added, cmd)
}

// marker stands in for a segment whose endpoints coincide.
func (c *Context) marker(h Header, p mgl32.Vec3) {
	c.push(PointCommand{Header: h, Pos: p, Radius: c.cfg.MarkerRadius})
}

// --- render state ---

// PushRenderState saves the render state, including the global pose, the
// active draw group and the camera matrices.
func (c *Context) PushRenderState() {
	if !c.live("PushRenderState") {
		return
	}
	c.state.Push()
	c.cameras = append(c.cameras, cameraSnapshot{c.camera.ViewMatrix(), c.camera.ProjectionMatrix()})
}

// PopRenderState restores the state saved by the matching PushRenderState.
// Popping an empty stack reports ErrStateUnderflow and changes nothing.
func (c *Context) PopRenderState() {
	const op = "PopRenderState"
	if !c.live(op) {
		return
	}
	if !c.state.Pop() {
		c.report(op, ErrStateUnderflow)
		return
	}
	snap := c.cameras[len(c.cameras)-1]
	c.cameras = c.cameras[:len(c.cameras)-1]
	c.camera.restore(snap.view, snap.projection)
}

// Scope runs fn between PushRenderState and PopRenderState. The pop runs
// even if fn panics.
func (c *Context) Scope(fn func()) {
	c.PushRenderState()
	defer c.PopRenderState()
	fn()
}

// State returns a copy of the live render state.
func (c *Context) State() RenderState {
	return c.state.State()
}

// SetCurrentColor sets the color of subsequent primitives and of their
// arrow heads.
func (c *Context) SetCurrentColor(color, arrow Color) {
	if !c.live("SetCurrentColor") {
		return
	}
	c.state.cur.Color = color
	c.state.cur.ArrowColor = arrow
}

// CurrentColor returns the primitive color.
func (c *Context) CurrentColor() Color {
	return c.state.cur.Color
}

// CurrentArrowColor returns the arrow head color.
func (c *Context) CurrentArrowColor() Color {
	return c.state.cur.ArrowColor
}

// SetArrowSize sets the arrow head length of rays and arcs.
func (c *Context) SetArrowSize(size float32) {
	const op = "SetArrowSize"
	if !c.live(op) {
		return
	}
	var g guard
	c.state.cur.ArrowSize = g.size(size, c.cfg.ArrowSize)
	c.checked(op, &g)
}

// SetTextScale sets the height of one line of text.
func (c *Context) SetTextScale(scale float32) {
	const op = "SetTextScale"
	if !c.live(op) {
		return
	}
	var g guard
	c.state.cur.TextScale = g.size(scale, c.cfg.TextScale)
	c.checked(op, &g)
}

// SetRenderFlags selects solid or wireframe drawing of surfaces.
func (c *Context) SetRenderFlags(flags RenderFlags) {
	if !c.live("SetRenderFlags") {
		return
	}
	c.state.cur.Flags = flags
}

// DebugColor returns the palette entry for name.
func (c *Context) DebugColor(name DebugColor) Color {
	if name >= numDebugColors {
		return c.palette[ColorDefault]
	}
	return c.palette[name]
}

// SetDebugColor overrides a palette entry.
func (c *Context) SetDebugColor(name DebugColor, color Color) {
	if !c.live("SetDebugColor") || name >= numDebugColors {
		return
	}
	c.palette[name] = color
}

// --- global pose ---

// SetPose replaces the global pose applied to subsequent commands.
func (c *Context) SetPose(pose mgl32.Mat4) {
	const op = "SetPose"
	if !c.live(op) {
		return
	}
	var g guard
	c.state.SetPose(g.mat(pose))
	c.checked(op, &g)
}

// SetPoseTransform replaces the global pose with a position and rotation.
func (c *Context) SetPoseTransform(t Transform) {
	const op = "SetPoseTransform"
	if !c.live(op) {
		return
	}
	var g guard
	t.P = g.vec(t.P)
	t.Q = g.quat(t.Q)
	c.state.SetPose(t.Mat4())
	c.checked(op, &g)
}

// SetPosition moves the global pose, keeping its rotation.
func (c *Context) SetPosition(p mgl32.Vec3) {
	const op = "SetPosition"
	if !c.live(op) {
		return
	}
	var g guard
	c.state.SetPosition(g.vec(p))
	c.checked(op, &g)
}

// SetOrientation rotates the global pose, keeping its translation.
func (c *Context) SetOrientation(q mgl32.Quat) {
	const op = "SetOrientation"
	if !c.live(op) {
		return
	}
	var g guard
	c.state.SetOrientation(g.quat(q))
	c.checked(op, &g)
}

// Pose returns a copy of the global pose.
func (c *Context) Pose() mgl32.Mat4 {
	return c.state.Pose()
}

// --- draw groups ---

// BeginDrawGroup allocates a draw group with the given base pose and makes
// it active. Subsequent commands are tagged with the returned id and are
// kept across frames until the group is released.
//
// The global pose is saved and restored when the group ends, either
// through EndDrawGroup or because another BeginDrawGroup replaces it.
// It returns NoGroup if the id space is exhausted.
func (c *Context) BeginDrawGroup(pose mgl32.Mat4) GroupID {
	const op = "BeginDrawGroup"
	if !c.live(op) {
		return NoGroup
	}
	var g guard
	pose = g.mat(pose)
	c.checked(op, &g)

	id, ok := c.groups.Allocate(pose)
	if !ok {
		c.report(op, ErrGroupsExhausted)
		return NoGroup
	}
	c.state.beginGroup(id)
	return id
}

// EndDrawGroup deactivates the active draw group and restores the global
// pose it began with. Without an active group it does nothing.
func (c *Context) EndDrawGroup() {
	if !c.live("EndDrawGroup") {
		return
	}
	c.state.endGroup()
}

// ActiveDrawGroup returns the active draw group, or NoGroup.
func (c *Context) ActiveDrawGroup() GroupID {
	return c.state.cur.Group
}

// SetDrawGroupPose revises the base pose of a group. Every command tagged
// with the group, past and future, is rendered with the new pose.
func (c *Context) SetDrawGroupPose(id GroupID, pose mgl32.Mat4) {
	const op = "SetDrawGroupPose"
	if !c.live(op) {
		return
	}
	var g guard
	pose = g.mat(pose)
	c.checked(op, &g)

	if !c.groups.SetPose(id, pose) {
		c.report(op, &GroupError{Op: op, ID: id})
	}
}

// DrawGroupPose returns the base pose of a live group.
func (c *Context) DrawGroupPose(id GroupID) (mgl32.Mat4, bool) {
	return c.groups.Pose(id)
}

// ReleaseDrawGroup frees a group and drops every command tagged with it.
// Releasing the active group ends it first.
func (c *Context) ReleaseDrawGroup(id GroupID) {
	const op = "ReleaseDrawGroup"
	if !c.live(op) {
		return
	}
	if !c.groups.Release(id) {
		c.report(op, &GroupError{Op: op, ID: id})
		return
	}
	c.state.forgetGroup(id)
	ids := []GroupID{id}
	c.stream = dropGroups(c.stream, ids)
	c.added = dropGroups(c.added, ids)
}

// --- camera ---

// SetViewMatrix sets the world-to-camera matrix used for local rendering.
func (c *Context) SetViewMatrix(view mgl32.Mat4) {
	const op = "SetViewMatrix"
	if !c.live(op) {
		return
	}
	var g guard
	c.camera.SetViewMatrix(g.mat(view))
	c.checked(op, &g)
}

// SetProjectionMatrix sets the camera-to-clip matrix used for local
// rendering.
func (c *Context) SetProjectionMatrix(projection mgl32.Mat4) {
	const op = "SetProjectionMatrix"
	if !c.live(op) {
		return
	}
	var g guard
	c.camera.SetProjectionMatrix(g.mat(projection))
	c.checked(op, &g)
}

// ViewMatrix returns the view matrix.
func (c *Context) ViewMatrix() mgl32.Mat4 {
	return c.camera.ViewMatrix()
}

// ProjectionMatrix returns the projection matrix.
func (c *Context) ProjectionMatrix() mgl32.Mat4 {
	return c.camera.ProjectionMatrix()
}

// ViewProjectionMatrix returns projection · view, cached between changes.
func (c *Context) ViewProjectionMatrix() mgl32.Mat4 {
	return c.camera.ViewProjectionMatrix()
}

// Camera returns the camera matrices for Frame.Playback.
func (c *Context) Camera() CameraView {
	return c.camera.View()
}

// --- primitives ---

// DebugLine draws a segment in the current color.
func (c *Context) DebugLine(p1, p2 mgl32.Vec3) {
	const op = "DebugLine"
	if !c.live(op) {
		return
	}
	var g guard
	p1, p2 = g.vec(p1), g.vec(p2)
	c.checked(op, &g)

	h := c.header()
	if p1 == p2 {
		c.marker(h, p1)
		return
	}
	c.push(LineCommand{Header: h, P1: p1, P2: p2})
}

// DebugGradientLine draws a segment blending from c1 at p1 to c2 at p2.
func (c *Context) DebugGradientLine(p1, p2 mgl32.Vec3, c1, c2 Color) {
	const op = "DebugGradientLine"
	if !c.live(op) {
		return
	}
	var g guard
	p1, p2 = g.vec(p1), g.vec(p2)
	c.checked(op, &g)

	h := c.header()
	if p1 == p2 {
		h.Color = c1
		c.marker(h, p1)
		return
	}
	c.push(GradientLineCommand{Header: h, P1: p1, P2: p2, C1: c1, C2: c2})
}

// DebugRay draws a segment with an arrow head at p2.
func (c *Context) DebugRay(p1, p2 mgl32.Vec3) {
	const op = "DebugRay"
	if !c.live(op) {
		return
	}
	var g guard
	p1, p2 = g.vec(p1), g.vec(p2)
	c.checked(op, &g)

	h := c.header()
	if p1 == p2 {
		c.marker(h, p1)
		return
	}
	c.push(RayCommand{Header: h, P1: p1, P2: p2})
}

// DebugThickRay draws a ray as a cylinder of diameter size, optionally
// ending in a cone.
func (c *Context) DebugThickRay(p1, p2 mgl32.Vec3, size float32, arrowTip bool) {
	const op = "DebugThickRay"
	if !c.live(op) {
		return
	}
	var g guard
	p1, p2 = g.vec(p1), g.vec(p2)
	size = g.size(size, c.cfg.MarkerRadius)
	c.checked(op, &g)

	h := c.header()
	if p1 == p2 {
		c.marker(h, p1)
		return
	}
	c.push(ThickRayCommand{Header: h, P1: p1, P2: p2, Size: size, ArrowTip: arrowTip})
}

// DebugCylinder draws a cylinder between the centers of its caps.
func (c *Context) DebugCylinder(p1, p2 mgl32.Vec3, radius float32) {
	const op = "DebugCylinder"
	if !c.live(op) {
		return
	}
	var g guard
	p1, p2 = g.vec(p1), g.vec(p2)
	radius = g.size(radius, c.cfg.MarkerRadius)
	c.checked(op, &g)

	h := c.header()
	if p1 == p2 {
		c.marker(h, p1)
		return
	}
	c.push(CylinderCommand{Header: h, P1: p1, P2: p2, Radius: radius})
}

// DebugPlane draws a plane as two concentric circles around its point
// closest to the origin, plus its normal.
func (c *Context) DebugPlane(p Plane, radius1, radius2 float32) {
	const op = "DebugPlane"
	if !c.live(op) {
		return
	}
	var g guard
	p.N = g.vec(p.N)
	p.D = g.scalar(p.D)
	radius1 = g.size(radius1, 1)
	radius2 = g.size(radius2, 1)
	c.checked(op, &g)

	c.push(PlaneCommand{Header: c.header(), Plane: p.Normalized(), Radius1: radius1, Radius2: radius2})
}

// DebugTri draws a triangle.
func (c *Context) DebugTri(p1, p2, p3 mgl32.Vec3) {
	const op = "DebugTri"
	if !c.live(op) {
		return
	}
	var g guard
	p := g.tri(p1, p2, p3)
	c.checked(op, &g)

	c.push(TriCommand{Header: c.header(), P: p})
}

// DebugTriNormals draws a triangle with per-vertex normals.
func (c *Context) DebugTriNormals(p1, p2, p3, n1, n2, n3 mgl32.Vec3) {
	const op = "DebugTriNormals"
	if !c.live(op) {
		return
	}
	var g guard
	p := g.tri(p1, p2, p3)
	n := g.tri(n1, n2, n3)
	c.checked(op, &g)

	c.push(TriNormalsCommand{Header: c.header(), P: p, N: n})
}

// DebugGradientTri draws a triangle with per-vertex colors.
func (c *Context) DebugGradientTri(p1, p2, p3 mgl32.Vec3, c1, c2, c3 Color) {
	const op = "DebugGradientTri"
	if !c.live(op) {
		return
	}
	var g guard
	p := g.tri(p1, p2, p3)
	c.checked(op, &g)

	c.push(GradientTriCommand{Header: c.header(), P: p, C: [3]Color{c1, c2, c3}})
}

// DebugGradientTriNormals draws a triangle with per-vertex normals and
// colors.
func (c *Context) DebugGradientTriNormals(p1, p2, p3, n1, n2, n3 mgl32.Vec3, c1, c2, c3 Color) {
	const op = "DebugGradientTriNormals"
	if !c.live(op) {
		return
	}
	var g guard
	p := g.tri(p1, p2, p3)
	n := g.tri(n1, n2, n3)
	c.checked(op, &g)

	c.push(GradientTriNormalsCommand{Header: c.header(), P: p, N: n, C: [3]Color{c1, c2, c3}})
}

// DebugBound draws an axis-aligned box. Swapped corners are reordered.
func (c *Context) DebugBound(b Bounds) {
	const op = "DebugBound"
	if !c.live(op) {
		return
	}
	var g guard
	lo, hi := g.vec(b.Min), g.vec(b.Max)
	c.checked(op, &g)

	b = Bounds{
		Min: mgl32.Vec3{min(lo[0], hi[0]), min(lo[1], hi[1]), min(lo[2], hi[2])},
		Max: mgl32.Vec3{max(lo[0], hi[0]), max(lo[1], hi[1]), max(lo[2], hi[2])},
	}
	c.push(BoundCommand{Header: c.header(), Bounds: b})
}

// DebugSphere draws a sphere. subdivision is clamped to
// [MinSphereSubdivision, MaxSphereSubdivision].
func (c *Context) DebugSphere(center mgl32.Vec3, radius float32, subdivision uint32) {
	const op = "DebugSphere"
	if !c.live(op) {
		return
	}
	var g guard
	center = g.vec(center)
	radius = g.size(radius, c.cfg.MarkerRadius)
	c.checked(op, &g)

	c.push(SphereCommand{
		Header:      c.header(),
		Center:      center,
		Radius:      radius,
		Subdivision: ClampSphereSubdivision(subdivision),
	})
}

// DebugCircle draws a circle in the XZ plane of the current pose.
// segments is clamped to [MinCircleSegments, MaxCircleSegments].
func (c *Context) DebugCircle(center mgl32.Vec3, radius float32, segments uint32) {
	const op = "DebugCircle"
	if !c.live(op) {
		return
	}
	var g guard
	center = g.vec(center)
	radius = g.size(radius, c.cfg.MarkerRadius)
	c.checked(op, &g)

	c.push(CircleCommand{
		Header:   c.header(),
		Center:   center,
		Radius:   radius,
		Segments: ClampCircleSegments(segments),
	})
}

// DebugPoint draws a three-axis cross of the given radius.
func (c *Context) DebugPoint(pos mgl32.Vec3, radius float32) {
	const op = "DebugPoint"
	if !c.live(op) {
		return
	}
	var g guard
	pos = g.vec(pos)
	radius = g.size(radius, c.cfg.MarkerRadius)
	c.checked(op, &g)

	c.push(PointCommand{Header: c.header(), Pos: pos, Radius: radius})
}

// DebugPointScale draws a cross with a separate half-length per axis.
func (c *Context) DebugPointScale(pos, scale mgl32.Vec3) {
	const op = "DebugPointScale"
	if !c.live(op) {
		return
	}
	var g guard
	pos = g.vec(pos)
	for i := range scale {
		scale[i] = g.size(scale[i], c.cfg.MarkerRadius)
	}
	c.checked(op, &g)

	c.push(PointScaleCommand{Header: c.header(), Pos: pos, Scale: scale})
}

// DebugQuad draws a camera-facing rectangle of the given width and height,
// rotated by orientation radians around the view direction.
func (c *Context) DebugQuad(pos mgl32.Vec3, scale mgl32.Vec2, orientation float32) {
	const op = "DebugQuad"
	if !c.live(op) {
		return
	}
	var g guard
	pos = g.vec(pos)
	scale[0] = g.size(scale[0], c.cfg.MarkerRadius)
	scale[1] = g.size(scale[1], c.cfg.MarkerRadius)
	orientation = g.scalar(orientation)
	c.checked(op, &g)

	c.push(QuadCommand{Header: c.header(), Pos: pos, Scale: scale, Orientation: orientation})
}

// DebugArc draws an arc around center from p1 to p2 ending in an arrow
// head of arrowSize. showRoot adds the radii to p1 and p2.
func (c *Context) DebugArc(center, p1, p2 mgl32.Vec3, arrowSize float32, showRoot bool) {
	const op = "DebugArc"
	if !c.live(op) {
		return
	}
	var g guard
	center, p1, p2 = g.vec(center), g.vec(p1), g.vec(p2)
	arrowSize = g.size(arrowSize, c.state.cur.ArrowSize)
	c.checked(op, &g)

	c.push(ArcCommand{Header: c.header(), Center: center, P1: p1, P2: p2, ArrowSize: arrowSize, ShowRoot: showRoot})
}

// DebugThickArc draws an arc as a chain of cylinders of the given
// thickness.
func (c *Context) DebugThickArc(center, p1, p2 mgl32.Vec3, thickness float32, showRoot bool) {
	const op = "DebugThickArc"
	if !c.live(op) {
		return
	}
	var g guard
	center, p1, p2 = g.vec(center), g.vec(p1), g.vec(p2)
	thickness = g.size(thickness, c.cfg.MarkerRadius)
	c.checked(op, &g)

	c.push(ThickArcCommand{Header: c.header(), Center: center, P1: p1, P2: p2, Thickness: thickness, ShowRoot: showRoot})
}

// DebugText draws camera-facing wireframe text at pos. The format uses
// printf verbs bound to typed arguments; see FormatText. A bad directive
// renders as "?" and is reported as ErrFormat. Characters outside the
// printable ASCII set are folded to ASCII where possible and otherwise
// drawn as text.Placeholder.
func (c *Context) DebugText(pos mgl32.Vec3, format string, args ...Arg) {
	const op = "DebugText"
	if !c.live(op) {
		return
	}
	var g guard
	pos = g.vec(pos)
	c.checked(op, &g)

	s, err := FormatText(format, args...)
	if err != nil {
		c.report(op, err)
	}
	s, _ = text.Sanitize(s)
	c.push(TextCommand{Header: c.header(), Pos: pos, Text: s})
}

// DebugPolygon draws a closed outline through points, or a triangle fan
// when FlagSolid is set. A single point draws a marker.
func (c *Context) DebugPolygon(points ...mgl32.Vec3) {
	const op = "DebugPolygon"
	if !c.live(op) || len(points) == 0 {
		return
	}
	var g guard
	pts := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		pts[i] = g.vec(p)
	}
	c.checked(op, &g)

	h := c.header()
	if len(pts) == 1 {
		c.marker(h, pts[0])
		return
	}
	c.push(PolygonCommand{Header: h, Points: pts})
}

// --- frames ---

// EndFrame finishes the current frame. The returned frame holds every
// retained group command plus the commands drawn since the previous
// EndFrame, and is sent to each sink. Commands drawn outside a draw group
// are then discarded. It returns nil after the context was released.
func (c *Context) EndFrame() *Frame {
	if !c.live("EndFrame") {
		return nil
	}
	c.seq++
	poses, released := c.groups.takeChanges()
	f := &Frame{
		seq:      c.seq,
		commands: slices.Clone(c.stream),
		groups:   c.groups.snapshot(),
		update: Update{
			Seq:      c.seq,
			Full:     c.seq == 1,
			Added:    slices.Clone(c.added),
			Poses:    poses,
			Released: released,
		},
		cylinderSegments: c.cfg.CylinderSegments,
	}

	for _, s := range c.sinks {
		if err := s.Send(f); err != nil {
			Logger().Warn("debugdraw: sink failed", "seq", f.seq, "err", err)
		}
	}

	c.stream = slices.DeleteFunc(c.stream, func(cmd Command) bool {
		return cmd.Head().Group == NoGroup
	})
	clear(c.added)
	c.added = c.added[:0]
	return f
}

// Render draws the current commands on b through the context's camera
// without ending the frame.
func (c *Context) Render(b Backend) error {
	if !c.live("Render") {
		return ErrReleased
	}
	f := &Frame{
		seq:              c.seq + 1,
		commands:         c.stream,
		groups:           c.groups.snapshot(),
		cylinderSegments: c.cfg.CylinderSegments,
	}
	return f.Playback(b, c.camera.View())
}

// Reset drops every command and draw group and restores the initial
// render state. Camera matrices and the palette are kept. Frame numbers
// and group ids keep counting.
func (c *Context) Reset() {
	if !c.live("Reset") {
		return
	}
	c.groups.Reset()
	c.stream = nil
	c.added = nil
	c.state = NewPoseStack(c.initialState())
	c.cameras = nil
}

// guard replaces non-finite input by safe values and remembers that it
// did.
type guard struct {
	bad bool
}

func (g *guard) vec(v mgl32.Vec3) mgl32.Vec3 {
	v, ok := sanitizeVec3(v)
	g.bad = g.bad || !ok
	return v
}

func (g *guard) tri(a, b, c mgl32.Vec3) [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{g.vec(a), g.vec(b), g.vec(c)}
}

func (g *guard) mat(m mgl32.Mat4) mgl32.Mat4 {
	m, ok := sanitizeMat4(m)
	g.bad = g.bad || !ok
	return m
}

func (g *guard) quat(q mgl32.Quat) mgl32.Quat {
	q, ok := sanitizeQuat(q)
	g.bad = g.bad || !ok
	return q
}

func (g *guard) size(f, def float32) float32 {
	f, ok := sanitizeSize(f, def)
	g.bad = g.bad || !ok
	return f
}

func (g *guard) scalar(f float32) float32 {
	if !finite(f) {
		g.bad = true
		return 0
	}
	return f
}
