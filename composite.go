package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// AxesMode selects how DebugAxes draws its axes.
type AxesMode uint8

const (
	// AxesLines draws each axis as a ray.
	AxesLines AxesMode = iota
	// AxesSolid draws each axis as a thick ray with a cone tip.
	AxesSolid
)

// Axes defaults applied when the corresponding option is zero.
const (
	DefaultAxesDistance   = 0.1
	DefaultAxesBrightness = 1
)

// NoBrightness as AxesOptions.Brightness draws the axes black. Zero
// selects DefaultAxesBrightness.
const NoBrightness float32 = -1

// AxesOptions configures DebugAxes.
type AxesOptions struct {
	// Distance is the length of each axis.
	Distance float32
	// Brightness scales the axis colors. Zero means
	// DefaultAxesBrightness; use NoBrightness for fully dimmed (black) axes.
	Brightness float32
	// ShowXYZ labels the axis tips.
	ShowXYZ bool
	// ShowRotation draws a ring around each axis.
	ShowRotation bool
	// AxisSwitch highlights axes in yellow: bit 0 is X, bit 1 Y, bit 2 Z.
	AxisSwitch uint8
	Mode       AxesMode
}

var axesSpec = [3]struct {
	dir   mgl32.Vec3
	color DebugColor
	label string
}{
	{axisX, ColorRed, "X"},
	{axisY, ColorGreen, "Y"},
	{axisZ, ColorBlue, "Z"},
}

// DebugAxes draws the coordinate frame t, composed with the current pose
// and draw group like any other primitive. The render state is restored
// afterwards.
func (c *Context) DebugAxes(t Transform, opts AxesOptions) {
	const op = "DebugAxes"
	if !c.live(op) {
		return
	}
	dim := opts.Brightness == NoBrightness
	var g guard
	t.P = g.vec(t.P)
	t.Q = g.quat(t.Q)
	opts.Distance = g.size(opts.Distance, DefaultAxesDistance)
	opts.Brightness = g.size(opts.Brightness, DefaultAxesBrightness)
	if opts.Distance == 0 {
		opts.Distance = DefaultAxesDistance
	}
	switch {
	case dim:
		opts.Brightness = 0
	case opts.Brightness == 0:
		opts.Brightness = DefaultAxesBrightness
	}
	// Finite inputs can still overflow once composed with the pose.
	base := g.mat(c.state.cur.Pose.Mul4(t.Mat4()))
	var rings [3]mgl32.Mat4
	if opts.ShowRotation {
		for i, a := range axesSpec {
			// Circles lie in the local XZ plane; tilt Y onto the axis.
			rings[i] = g.mat(base.Mul4(RotationArc(axisY, a.dir)))
		}
	}
	c.checked(op, &g)

	c.Scope(func() {
		c.state.SetPose(base)
		c.state.cur.ArrowSize = opts.Distance * 0.2

		for i, a := range axesSpec {
			col := c.palette[a.color]
			if opts.AxisSwitch&(1<<i) != 0 {
				col = c.palette[ColorYellow]
			}
			col = col.Scale(opts.Brightness)
			c.state.cur.Color, c.state.cur.ArrowColor = col, col

			tip := a.dir.Mul(opts.Distance)
			if opts.Mode == AxesSolid {
				c.DebugThickRay(mgl32.Vec3{}, tip, opts.Distance*0.05, true)
			} else {
				c.DebugRay(mgl32.Vec3{}, tip)
			}
			if opts.ShowXYZ {
				c.DebugText(a.dir.Mul(opts.Distance*1.1), a.label)
			}
			if opts.ShowRotation {
				c.state.SetPose(rings[i])
				c.DebugCircle(mgl32.Vec3{}, opts.Distance*0.5, DefaultCircleSegments)
				c.state.SetPose(base)
			}
		}
	})
}

// ndcCube is the clip-space cube in Bounds.Corners order.
var ndcCube = Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}.Corners()

// DebugFrustum draws the twelve edges of the view volume of view and
// projection. A singular view-projection draws nothing.
func (c *Context) DebugFrustum(view, projection mgl32.Mat4) {
	const op = "DebugFrustum"
	if !c.live(op) {
		return
	}
	var g guard
	view, projection = g.mat(view), g.mat(projection)
	c.checked(op, &g)

	vp := projection.Mul4(view)
	if vp.Det() == 0 {
		Logger().Debug("debugdraw: singular frustum skipped")
		return
	}
	inv := vp.Inv()
	var corners [8]mgl32.Vec3
	for i, p := range ndcCube {
		corners[i] = mgl32.TransformCoordinate(p, inv)
	}
	for _, e := range boxEdges {
		c.DebugLine(corners[e[0]], corners[e[1]])
	}
}
