package debugdraw

import (
	"image"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of a solid triangle in world space.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	Color  Color
}

// Backend draws tessellated world-space geometry. Frame.Playback turns
// every command into lines and triangles and hands them to a Backend.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
type Backend interface {
	// Begin starts a frame seen through cam.
	Begin(cam CameraView) error

	// End finishes the frame. Output accessors are valid afterwards.
	End() error

	// DrawLine draws a segment whose color blends from c1 to c2.
	DrawLine(p1, p2 mgl32.Vec3, c1, c2 Color)

	// DrawTriangle draws a filled triangle.
	DrawTriangle(v [3]Vertex)
}

// ImageBackend extends Backend with access to the rendered image.
type ImageBackend interface {
	Backend

	// Image returns the rendered image. Valid after End.
	Image() *image.RGBA
}

// WriterBackend extends Backend with the ability to encode its output.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered output. Valid after End.
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save its output.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered output. Valid after End.
	SaveToFile(path string) error
}
