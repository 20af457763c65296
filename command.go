package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// CommandType identifies the primitive kind of a command.
type CommandType uint8

const (
	CmdLine CommandType = iota
	CmdGradientLine
	CmdRay
	CmdThickRay
	CmdCylinder
	CmdPlane
	CmdTri
	CmdTriNormals
	CmdGradientTri
	CmdGradientTriNormals
	CmdBound
	CmdSphere
	CmdCircle
	CmdPoint
	CmdPointScale
	CmdQuad
	CmdArc
	CmdThickArc
	CmdText
	CmdPolygon

	numCommandTypes
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdLine:               "Line",
	CmdGradientLine:       "GradientLine",
	CmdRay:                "Ray",
	CmdThickRay:           "ThickRay",
	CmdCylinder:           "Cylinder",
	CmdPlane:              "Plane",
	CmdTri:                "Tri",
	CmdTriNormals:         "TriNormals",
	CmdGradientTri:        "GradientTri",
	CmdGradientTriNormals: "GradientTriNormals",
	CmdBound:              "Bound",
	CmdSphere:             "Sphere",
	CmdCircle:             "Circle",
	CmdPoint:              "Point",
	CmdPointScale:         "PointScale",
	CmdQuad:               "Quad",
	CmdArc:                "Arc",
	CmdThickArc:           "ThickArc",
	CmdText:               "Text",
	CmdPolygon:            "Polygon",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// ParseCommandType is the inverse of CommandType.String.
func ParseCommandType(s string) (CommandType, bool) {
	for i, name := range commandTypeNames {
		if name == s {
			return CommandType(i), true
		}
	}
	return 0, false
}

// Command is the interface implemented by all command types.
// Geometry is stored in the command's local space; the world transform is
// resolved at render time as Header.Pose · group pose · local.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
	// Head returns the render state stamped at emission.
	Head() Header
}

// RenderFlags select how surface primitives are drawn.
type RenderFlags uint8

const (
	// FlagSolid draws spheres, cylinders, bounds, triangles and quads as
	// filled triangles instead of wireframe.
	FlagSolid RenderFlags = 1 << iota
	// FlagWireOverlay adds the wireframe on top of solid geometry.
	FlagWireOverlay
)

// Header is the render state copied into every command when it is emitted.
type Header struct {
	// Group is the draw group active at emission, or NoGroup.
	Group GroupID
	// Pose is a copy of the global pose at emission.
	Pose       mgl32.Mat4
	Color      Color
	ArrowColor Color
	ArrowSize  float32
	TextScale  float32
	Flags      RenderFlags
}

// Head implements Command for every type embedding Header.
func (h Header) Head() Header { return h }

// LineCommand is a single segment in the current color.
type LineCommand struct {
	Header
	P1, P2 mgl32.Vec3
}

// Type implements Command.
func (LineCommand) Type() CommandType { return CmdLine }

// GradientLineCommand is a segment whose color blends from C1 to C2.
type GradientLineCommand struct {
	Header
	P1, P2 mgl32.Vec3
	C1, C2 Color
}

// Type implements Command.
func (GradientLineCommand) Type() CommandType { return CmdGradientLine }

// RayCommand is a segment with an arrow head at P2.
type RayCommand struct {
	Header
	P1, P2 mgl32.Vec3
}

// Type implements Command.
func (RayCommand) Type() CommandType { return CmdRay }

// ThickRayCommand is a cylinder of diameter Size with an optional cone tip.
type ThickRayCommand struct {
	Header
	P1, P2   mgl32.Vec3
	Size     float32
	ArrowTip bool
}

// Type implements Command.
func (ThickRayCommand) Type() CommandType { return CmdThickRay }

// CylinderCommand is a cylinder between the centers of its two caps.
type CylinderCommand struct {
	Header
	P1, P2 mgl32.Vec3
	Radius float32
}

// Type implements Command.
func (CylinderCommand) Type() CommandType { return CmdCylinder }

// PlaneCommand shows a plane as two concentric circles and its normal.
type PlaneCommand struct {
	Header
	Plane            Plane
	Radius1, Radius2 float32
}

// Type implements Command.
func (PlaneCommand) Type() CommandType { return CmdPlane }

// TriCommand is a triangle with a flat face normal.
type TriCommand struct {
	Header
	P [3]mgl32.Vec3
}

// Type implements Command.
func (TriCommand) Type() CommandType { return CmdTri }

// TriNormalsCommand is a triangle with per-vertex normals.
type TriNormalsCommand struct {
	Header
	P [3]mgl32.Vec3
	N [3]mgl32.Vec3
}

// Type implements Command.
func (TriNormalsCommand) Type() CommandType { return CmdTriNormals }

// GradientTriCommand is a triangle with per-vertex colors.
type GradientTriCommand struct {
	Header
	P [3]mgl32.Vec3
	C [3]Color
}

// Type implements Command.
func (GradientTriCommand) Type() CommandType { return CmdGradientTri }

// GradientTriNormalsCommand is a triangle with per-vertex normals and colors.
type GradientTriNormalsCommand struct {
	Header
	P [3]mgl32.Vec3
	N [3]mgl32.Vec3
	C [3]Color
}

// Type implements Command.
func (GradientTriNormalsCommand) Type() CommandType { return CmdGradientTriNormals }

// BoundCommand is an axis-aligned box in local space.
type BoundCommand struct {
	Header
	Bounds Bounds
}

// Type implements Command.
func (BoundCommand) Type() CommandType { return CmdBound }

// SphereCommand is a sphere refined from an octahedron Subdivision-1 times.
type SphereCommand struct {
	Header
	Center      mgl32.Vec3
	Radius      float32
	Subdivision uint32
}

// Type implements Command.
func (SphereCommand) Type() CommandType { return CmdSphere }

// CircleCommand is a circle in the local XZ plane.
type CircleCommand struct {
	Header
	Center   mgl32.Vec3
	Radius   float32
	Segments uint32
}

// Type implements Command.
func (CircleCommand) Type() CommandType { return CmdCircle }

// PointCommand is a three-axis cross of the given radius.
type PointCommand struct {
	Header
	Pos    mgl32.Vec3
	Radius float32
}

// Type implements Command.
func (PointCommand) Type() CommandType { return CmdPoint }

// PointScaleCommand is a cross with an independent half-length per axis.
type PointScaleCommand struct {
	Header
	Pos   mgl32.Vec3
	Scale mgl32.Vec3
}

// Type implements Command.
func (PointScaleCommand) Type() CommandType { return CmdPointScale }

// QuadCommand is a screen-facing rectangle rotated by Orientation radians.
type QuadCommand struct {
	Header
	Pos         mgl32.Vec3
	Scale       mgl32.Vec2
	Orientation float32
}

// Type implements Command.
func (QuadCommand) Type() CommandType { return CmdQuad }

// ArcCommand is an arc around Center from P1 towards P2 with an arrow head.
type ArcCommand struct {
	Header
	Center, P1, P2 mgl32.Vec3
	ArrowSize      float32
	ShowRoot       bool
}

// Type implements Command.
func (ArcCommand) Type() CommandType { return CmdArc }

// ThickArcCommand is an arc drawn as a chain of cylinders.
type ThickArcCommand struct {
	Header
	Center, P1, P2 mgl32.Vec3
	Thickness      float32
	ShowRoot       bool
}

// Type implements Command.
func (ThickArcCommand) Type() CommandType { return CmdThickArc }

// TextCommand is screen-facing wireframe text. Text holds the formatted
// string restricted to the supported character set.
type TextCommand struct {
	Header
	Pos  mgl32.Vec3
	Text string
}

// Type implements Command.
func (TextCommand) Type() CommandType { return CmdText }

// PolygonCommand is a closed outline (or triangle fan when solid).
type PolygonCommand struct {
	Header
	Points []mgl32.Vec3
}

// Type implements Command.
func (PolygonCommand) Type() CommandType { return CmdPolygon }
