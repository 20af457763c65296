package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// CameraState holds the view and projection matrices used for local
// rendering. Nothing in it is ever copied into a command or sent to a
// remote viewer.
//
// The view-projection product is computed on first access after either
// matrix changes and cached until the next change.
type CameraState struct {
	view       mgl32.Mat4
	projection mgl32.Mat4

	viewProj mgl32.Mat4
	valid    bool
	// computed counts view-projection recomputations.
	computed int
}

// NewCameraState returns a camera with identity matrices.
func NewCameraState() *CameraState {
	return &CameraState{
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
}

// SetViewMatrix stores the world-to-camera matrix.
func (c *CameraState) SetViewMatrix(view mgl32.Mat4) {
	c.view = view
	c.valid = false
}

// SetProjectionMatrix stores the camera-to-clip matrix.
func (c *CameraState) SetProjectionMatrix(projection mgl32.Mat4) {
	c.projection = projection
	c.valid = false
}

// ViewMatrix returns the current view matrix.
func (c *CameraState) ViewMatrix() mgl32.Mat4 {
	return c.view
}

// ProjectionMatrix returns the current projection matrix.
func (c *CameraState) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewProjectionMatrix returns projection · view.
func (c *CameraState) ViewProjectionMatrix() mgl32.Mat4 {
	if !c.valid {
		c.viewProj = c.projection.Mul4(c.view)
		c.valid = true
		c.computed++
	}
	return c.viewProj
}

// restore sets both matrices, keeping the cache when nothing changed.
func (c *CameraState) restore(view, projection mgl32.Mat4) {
	if view != c.view {
		c.SetViewMatrix(view)
	}
	if projection != c.projection {
		c.SetProjectionMatrix(projection)
	}
}

// View returns the matrices as a value for a rendering backend.
func (c *CameraState) View() CameraView {
	return CameraView{
		View:           c.view,
		Projection:     c.projection,
		ViewProjection: c.ViewProjectionMatrix(),
	}
}

// CameraView is an immutable copy of the camera handed to backends.
type CameraView struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
}

// IdentityCamera returns a camera looking down -Z with identity matrices.
func IdentityCamera() CameraView {
	return CameraView{View: mgl32.Ident4(), Projection: mgl32.Ident4(), ViewProjection: mgl32.Ident4()}
}

// Right returns the camera's right axis in world space.
func (v CameraView) Right() mgl32.Vec3 {
	return screenAxis(mgl32.Vec3{v.View[0], v.View[4], v.View[8]}, axisX)
}

// Up returns the camera's up axis in world space.
func (v CameraView) Up() mgl32.Vec3 {
	return screenAxis(mgl32.Vec3{v.View[1], v.View[5], v.View[9]}, axisY)
}

func screenAxis(a, fallback mgl32.Vec3) mgl32.Vec3 {
	l := a.Len()
	if l == 0 || !finite(l) {
		return fallback
	}
	return a.Mul(1 / l)
}
