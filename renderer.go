package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// DebugRenderer is the full debug drawing surface: render state, global
// pose, draw groups, camera and primitives. Context implements it; tools
// that only forward draw calls can accept a DebugRenderer instead.
type DebugRenderer interface {
	PushRenderState()
	PopRenderState()
	Scope(fn func())
	SetCurrentColor(color, arrow Color)
	CurrentColor() Color
	CurrentArrowColor() Color
	SetArrowSize(size float32)
	SetTextScale(scale float32)
	SetRenderFlags(flags RenderFlags)
	DebugColor(name DebugColor) Color
	SetDebugColor(name DebugColor, color Color)

	SetPose(pose mgl32.Mat4)
	SetPoseTransform(t Transform)
	SetPosition(p mgl32.Vec3)
	SetOrientation(q mgl32.Quat)
	Pose() mgl32.Mat4

	BeginDrawGroup(pose mgl32.Mat4) GroupID
	EndDrawGroup()
	ActiveDrawGroup() GroupID
	SetDrawGroupPose(id GroupID, pose mgl32.Mat4)
	DrawGroupPose(id GroupID) (mgl32.Mat4, bool)
	ReleaseDrawGroup(id GroupID)

	SetViewMatrix(view mgl32.Mat4)
	SetProjectionMatrix(projection mgl32.Mat4)
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	ViewProjectionMatrix() mgl32.Mat4

	DebugLine(p1, p2 mgl32.Vec3)
	DebugGradientLine(p1, p2 mgl32.Vec3, c1, c2 Color)
	DebugRay(p1, p2 mgl32.Vec3)
	DebugThickRay(p1, p2 mgl32.Vec3, size float32, arrowTip bool)
	DebugCylinder(p1, p2 mgl32.Vec3, radius float32)
	DebugPlane(p Plane, radius1, radius2 float32)
	DebugTri(p1, p2, p3 mgl32.Vec3)
	DebugTriNormals(p1, p2, p3, n1, n2, n3 mgl32.Vec3)
	DebugGradientTri(p1, p2, p3 mgl32.Vec3, c1, c2, c3 Color)
	DebugGradientTriNormals(p1, p2, p3, n1, n2, n3 mgl32.Vec3, c1, c2, c3 Color)
	DebugBound(b Bounds)
	DebugSphere(center mgl32.Vec3, radius float32, subdivision uint32)
	DebugCircle(center mgl32.Vec3, radius float32, segments uint32)
	DebugPoint(pos mgl32.Vec3, radius float32)
	DebugPointScale(pos, scale mgl32.Vec3)
	DebugQuad(pos mgl32.Vec3, scale mgl32.Vec2, orientation float32)
	DebugArc(center, p1, p2 mgl32.Vec3, arrowSize float32, showRoot bool)
	DebugThickArc(center, p1, p2 mgl32.Vec3, thickness float32, showRoot bool)
	DebugText(pos mgl32.Vec3, format string, args ...Arg)
	DebugPolygon(points ...mgl32.Vec3)
	DebugAxes(t Transform, opts AxesOptions)
	DebugFrustum(view, projection mgl32.Mat4)
}
