package debugdraw

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/debugdraw/text"
)

// Tessellation limits. Values outside a range are clamped to it, so a
// subdivision or segment count of 0 yields the smallest closed shape.
const (
	MinSphereSubdivision     = 1
	MaxSphereSubdivision     = 5
	DefaultSphereSubdivision = 2

	MinCircleSegments     = 3
	MaxCircleSegments     = 256
	DefaultCircleSegments = 32
)

// ClampSphereSubdivision limits n to [MinSphereSubdivision, MaxSphereSubdivision].
func ClampSphereSubdivision(n uint32) uint32 {
	return min(max(n, MinSphereSubdivision), MaxSphereSubdivision)
}

// ClampCircleSegments limits n to [MinCircleSegments, MaxCircleSegments].
func ClampCircleSegments(n uint32) uint32 {
	return min(max(n, MinCircleSegments), MaxCircleSegments)
}

// sphereMesh is a unit sphere refined from an octahedron.
type sphereMesh struct {
	verts []mgl32.Vec3
	tris  [][3]int
	edges [][2]int
}

var sphereMeshes [MaxSphereSubdivision]struct {
	once sync.Once
	mesh *sphereMesh
}

// sphereLevel returns the shared mesh for a (clamped) subdivision level.
func sphereLevel(n uint32) *sphereMesh {
	n = ClampSphereSubdivision(n)
	e := &sphereMeshes[n-1]
	e.once.Do(func() {
		e.mesh = buildSphere(int(n - 1))
	})
	return e.mesh
}

func buildSphere(refine int) *sphereMesh {
	m := &sphereMesh{
		verts: []mgl32.Vec3{
			{1, 0, 0}, {-1, 0, 0},
			{0, 1, 0}, {0, -1, 0},
			{0, 0, 1}, {0, 0, -1},
		},
		tris: [][3]int{
			{0, 2, 4}, {4, 2, 1}, {1, 2, 5}, {5, 2, 0},
			{4, 3, 0}, {1, 3, 4}, {5, 3, 1}, {0, 3, 5},
		},
	}

	for range refine {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[key]; ok {
				return i
			}
			m.verts = append(m.verts, m.verts[a].Add(m.verts[b]).Normalize())
			i := len(m.verts) - 1
			mid[key] = i
			return i
		}
		tris := make([][3]int, 0, len(m.tris)*4)
		for _, t := range m.tris {
			ab := midpoint(t[0], t[1])
			bc := midpoint(t[1], t[2])
			ca := midpoint(t[2], t[0])
			tris = append(tris,
				[3]int{t[0], ab, ca},
				[3]int{ab, t[1], bc},
				[3]int{ca, bc, t[2]},
				[3]int{ab, bc, ca},
			)
		}
		m.tris = tris
	}

	seen := make(map[[2]int]struct{}, len(m.tris)*3/2)
	for _, t := range m.tris {
		for k := range 3 {
			a, b := t[k], t[(k+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			m.edges = append(m.edges, key)
		}
	}
	return m
}

// Playback tessellates every command of the frame in world space and
// draws it on b. Quads and text face the camera described by cam.
func (f *Frame) Playback(b Backend, cam CameraView) error {
	if err := b.Begin(cam); err != nil {
		return fmt.Errorf("debugdraw: playback: %w", err)
	}

	t := tessellator{b: b, cam: cam, segments: int(f.cylinderSegments)}
	if t.segments == 0 {
		t.segments = DefaultCylinderSegments
	}
	for _, cmd := range f.commands {
		h := cmd.Head()
		m, ok := f.WorldTransform(h)
		if !ok {
			Logger().Debug("debugdraw: playback skips command of unknown group",
				"type", cmd.Type(), "group", h.Group)
			continue
		}
		t.h, t.m = h, m
		t.emit(cmd)
	}

	if err := b.End(); err != nil {
		return fmt.Errorf("debugdraw: playback: %w", err)
	}
	return nil
}

// tessellator turns commands into backend lines and triangles. Geometry
// helpers take local coordinates and transform them by m.
type tessellator struct {
	b        Backend
	cam      CameraView
	segments int

	h Header
	m mgl32.Mat4
}

func (t *tessellator) emit(cmd Command) {
	switch c := cmd.(type) {
	case LineCommand:
		t.line(c.P1, c.P2, c.Color)
	case GradientLineCommand:
		t.gradient(c.P1, c.P2, c.C1, c.C2)
	case RayCommand:
		t.line(c.P1, c.P2, c.Color)
		t.arrow(c.P1, c.P2, c.ArrowSize, c.ArrowColor)
	case ThickRayCommand:
		t.thickRay(c)
	case CylinderCommand:
		t.cylinder(c.P1, c.P2, c.Radius, c.Radius, c.Color)
	case PlaneCommand:
		t.plane(c)
	case TriCommand:
		n := faceNormal(c.P)
		t.surface(c.P, [3]mgl32.Vec3{n, n, n}, uniform(c.Color))
	case TriNormalsCommand:
		t.surface(c.P, c.N, uniform(c.Color))
	case GradientTriCommand:
		n := faceNormal(c.P)
		t.surface(c.P, [3]mgl32.Vec3{n, n, n}, c.C)
	case GradientTriNormalsCommand:
		t.surface(c.P, c.N, c.C)
	case BoundCommand:
		t.bound(c.Bounds, c.Color)
	case SphereCommand:
		t.sphere(c)
	case CircleCommand:
		t.circle(c.Center, c.Radius, int(ClampCircleSegments(c.Segments)), c.Color)
	case PointCommand:
		t.cross(c.Pos, mgl32.Vec3{c.Radius, c.Radius, c.Radius}, c.Color)
	case PointScaleCommand:
		t.cross(c.Pos, c.Scale, c.Color)
	case QuadCommand:
		t.quad(c)
	case ArcCommand:
		t.arc(c)
	case ThickArcCommand:
		t.thickArc(c)
	case TextCommand:
		t.text(c)
	case PolygonCommand:
		t.polygon(c.Points, c.Color)
	}
}

func (t *tessellator) point(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(v, t.m)
}

func (t *tessellator) normal(n mgl32.Vec3) mgl32.Vec3 {
	n = mgl32.TransformNormal(n, t.m)
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return n
}

func (t *tessellator) solid() bool {
	return t.h.Flags&FlagSolid != 0
}

func (t *tessellator) wire() bool {
	return t.h.Flags&FlagSolid == 0 || t.h.Flags&FlagWireOverlay != 0
}

// wireColor darkens outlines drawn over solid geometry.
func (t *tessellator) wireColor(c Color) Color {
	if t.solid() {
		return c.Scale(0.5)
	}
	return c
}

func (t *tessellator) line(a, b mgl32.Vec3, c Color) {
	t.b.DrawLine(t.point(a), t.point(b), c, c)
}

func (t *tessellator) gradient(a, b mgl32.Vec3, c1, c2 Color) {
	t.b.DrawLine(t.point(a), t.point(b), c1, c2)
}

func (t *tessellator) triangle(p, n [3]mgl32.Vec3, c [3]Color) {
	var v [3]Vertex
	for i := range v {
		v[i] = Vertex{Pos: t.point(p[i]), Normal: t.normal(n[i]), Color: c[i]}
	}
	t.b.DrawTriangle(v)
}

// surface draws a triangle filled, outlined or both per the render flags.
func (t *tessellator) surface(p, n [3]mgl32.Vec3, c [3]Color) {
	if t.solid() {
		t.triangle(p, n, c)
	}
	if t.wire() {
		for i := range 3 {
			j := (i + 1) % 3
			t.gradient(p[i], p[j], t.wireColor(c[i]), t.wireColor(c[j]))
		}
	}
}

func (t *tessellator) loop(pts []mgl32.Vec3, c Color) {
	for i := range pts {
		t.line(pts[i], pts[(i+1)%len(pts)], c)
	}
}

// fan fills a convex outline around center with a constant normal.
func (t *tessellator) fan(center mgl32.Vec3, pts []mgl32.Vec3, n mgl32.Vec3, c Color) {
	for i := range pts {
		j := (i + 1) % len(pts)
		t.triangle([3]mgl32.Vec3{center, pts[i], pts[j]}, [3]mgl32.Vec3{n, n, n}, uniform(c))
	}
}

func (t *tessellator) arrow(from, tip mgl32.Vec3, size float32, c Color) {
	d := tip.Sub(from)
	l := d.Len()
	if l == 0 || size <= 0 {
		return
	}
	d = d.Mul(1 / l)
	back := tip.Sub(d.Mul(size))
	w := size * 0.4
	if t.solid() {
		t.cylinder(back, tip, w, 0, c)
		return
	}
	u, v := basis(d)
	rim := [4]mgl32.Vec3{
		back.Add(u.Mul(w)), back.Add(v.Mul(w)),
		back.Sub(u.Mul(w)), back.Sub(v.Mul(w)),
	}
	for i, p := range rim {
		t.line(tip, p, c)
		t.line(p, rim[(i+1)%len(rim)], c)
	}
}

// cylinder draws a truncated cone from a cap of radius r1 around p1 to a
// cap of radius r2 around p2. r2 = 0 gives a cone.
func (t *tessellator) cylinder(p1, p2 mgl32.Vec3, r1, r2 float32, c Color) {
	d := p2.Sub(p1)
	l := d.Len()
	if l == 0 {
		return
	}
	d = d.Mul(1 / l)
	u, v := basis(d)
	n := t.segments
	dirs := ringDirs(u, v, n)
	at := func(p mgl32.Vec3, r float32, i int) mgl32.Vec3 {
		return p.Add(dirs[i%n].Mul(r))
	}

	if t.solid() {
		col := uniform(c)
		down, up := d.Mul(-1), d
		for i := range n {
			j := (i + 1) % n
			a, b := at(p1, r1, i), at(p1, r1, j)
			e, f := at(p2, r2, j), at(p2, r2, i)
			t.triangle([3]mgl32.Vec3{a, b, e}, [3]mgl32.Vec3{dirs[i], dirs[j], dirs[j]}, col)
			if r2 > 0 {
				t.triangle([3]mgl32.Vec3{a, e, f}, [3]mgl32.Vec3{dirs[i], dirs[j], dirs[i]}, col)
				t.triangle([3]mgl32.Vec3{p2, f, e}, [3]mgl32.Vec3{up, up, up}, col)
			}
			if r1 > 0 {
				t.triangle([3]mgl32.Vec3{p1, b, a}, [3]mgl32.Vec3{down, down, down}, col)
			}
		}
	}
	if t.wire() {
		wc := t.wireColor(c)
		for i := range n {
			j := (i + 1) % n
			if r1 > 0 {
				t.line(at(p1, r1, i), at(p1, r1, j), wc)
			}
			if r2 > 0 {
				t.line(at(p2, r2, i), at(p2, r2, j), wc)
			}
			t.line(at(p1, r1, i), at(p2, r2, i), wc)
		}
	}
}

func (t *tessellator) thickRay(c ThickRayCommand) {
	r := c.Size / 2
	if !c.ArrowTip {
		t.cylinder(c.P1, c.P2, r, r, c.Color)
		return
	}
	d := c.P2.Sub(c.P1)
	l := d.Len()
	if l == 0 {
		return
	}
	cone := min(c.Size*2, l)
	base := c.P2.Sub(d.Mul(cone / l))
	if cone < l {
		t.cylinder(c.P1, base, r, r, c.Color)
	}
	t.cylinder(base, c.P2, c.Size, 0, c.ArrowColor)
}

func (t *tessellator) plane(c PlaneCommand) {
	p := c.Plane.Normalized()
	o := p.Origin()
	u, v := basis(p.N)
	outer := ring(o, u, v, c.Radius1, DefaultCircleSegments)
	inner := ring(o, u, v, c.Radius2, DefaultCircleSegments)

	if t.solid() {
		if c.Radius1 >= c.Radius2 {
			t.fan(o, outer, p.N, c.Color)
		} else {
			t.fan(o, inner, p.N, c.Color)
		}
	}
	if t.wire() {
		wc := t.wireColor(c.Color)
		t.loop(outer, wc)
		t.loop(inner, wc)
	}
	tip := o.Add(p.N.Mul(max(c.Radius1, c.Radius2) * 0.5))
	t.line(o, tip, c.ArrowColor)
	t.arrow(o, tip, c.ArrowSize, c.ArrowColor)
}

func (t *tessellator) bound(b Bounds, c Color) {
	p := b.Corners()
	if t.solid() {
		for _, f := range boxFaces {
			q := [4]mgl32.Vec3{p[f[0]], p[f[1]], p[f[2]], p[f[3]]}
			n := faceNormal([3]mgl32.Vec3{q[0], q[1], q[2]})
			ns := [3]mgl32.Vec3{n, n, n}
			t.triangle([3]mgl32.Vec3{q[0], q[1], q[2]}, ns, uniform(c))
			t.triangle([3]mgl32.Vec3{q[0], q[2], q[3]}, ns, uniform(c))
		}
	}
	if t.wire() {
		wc := t.wireColor(c)
		for _, e := range boxEdges {
			t.line(p[e[0]], p[e[1]], wc)
		}
	}
}

// boxFaces lists the corners of each box face, counter-clockwise seen
// from outside.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, {1, 3, 7, 5},
	{0, 1, 5, 4}, {2, 6, 7, 3},
	{0, 2, 3, 1}, {4, 5, 7, 6},
}

func (t *tessellator) sphere(c SphereCommand) {
	mesh := sphereLevel(c.Subdivision)
	at := func(i int) mgl32.Vec3 {
		return c.Center.Add(mesh.verts[i].Mul(c.Radius))
	}
	if t.solid() {
		for _, tri := range mesh.tris {
			t.triangle(
				[3]mgl32.Vec3{at(tri[0]), at(tri[1]), at(tri[2])},
				[3]mgl32.Vec3{mesh.verts[tri[0]], mesh.verts[tri[1]], mesh.verts[tri[2]]},
				uniform(c.Color),
			)
		}
	}
	if t.wire() {
		wc := t.wireColor(c.Color)
		for _, e := range mesh.edges {
			t.line(at(e[0]), at(e[1]), wc)
		}
	}
}

// circle draws a circle in the local XZ plane.
func (t *tessellator) circle(center mgl32.Vec3, r float32, n int, c Color) {
	pts := ring(center, axisX, axisZ, r, n)
	if t.solid() {
		t.fan(center, pts, axisY, c)
	}
	if t.wire() {
		t.loop(pts, t.wireColor(c))
	}
}

func (t *tessellator) cross(pos, half mgl32.Vec3, c Color) {
	for i := range 3 {
		var d mgl32.Vec3
		d[i] = half[i]
		t.line(pos.Sub(d), pos.Add(d), c)
	}
}

// quad draws a camera-facing rectangle centered on the transformed
// position. Only the position follows the pose.
func (t *tessellator) quad(c QuadCommand) {
	center := t.point(c.Pos)
	right, up := t.cam.Right(), t.cam.Up()
	sin, cos := math32.Sincos(c.Orientation)
	r := right.Mul(cos).Add(up.Mul(sin)).Mul(c.Scale[0] / 2)
	u := up.Mul(cos).Sub(right.Mul(sin)).Mul(c.Scale[1] / 2)
	q := [4]mgl32.Vec3{
		center.Sub(r).Sub(u), center.Add(r).Sub(u),
		center.Add(r).Add(u), center.Sub(r).Add(u),
	}

	if t.solid() {
		n := r.Cross(u)
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		ns := [3]mgl32.Vec3{n, n, n}
		t.b.DrawTriangle(worldTri(q[0], q[1], q[2], ns, c.Color))
		t.b.DrawTriangle(worldTri(q[0], q[2], q[3], ns, c.Color))
	}
	if t.wire() {
		wc := t.wireColor(c.Color)
		for i := range q {
			t.b.DrawLine(q[i], q[(i+1)%4], wc, wc)
		}
	}
}

func worldTri(a, b, c mgl32.Vec3, n [3]mgl32.Vec3, col Color) [3]Vertex {
	return [3]Vertex{
		{Pos: a, Normal: n[0], Color: col},
		{Pos: b, Normal: n[1], Color: col},
		{Pos: c, Normal: n[2], Color: col},
	}
}

// arcPoints samples the arc around center from p1 to p2. The radius blends
// linearly from |p1-center| to |p2-center|.
func arcPoints(center, p1, p2 mgl32.Vec3, segments int) []mgl32.Vec3 {
	a, b := p1.Sub(center), p2.Sub(center)
	ra, rb := a.Len(), b.Len()
	if ra == 0 || rb == 0 {
		return []mgl32.Vec3{p1, p2}
	}
	ua := a.Mul(1 / ra)

	axis := a.Cross(b)
	sinA := axis.Len()
	angle := math32.Atan2(sinA, a.Dot(b))
	if sinA < 1e-6*ra*rb {
		if a.Dot(b) > 0 {
			return []mgl32.Vec3{p1, p2}
		}
		axis, _ = basis(ua)
	} else {
		axis = axis.Mul(1 / sinA)
	}

	steps := max(1, int(math32.Ceil(angle/(2*math32.Pi)*float32(segments))))
	pts := make([]mgl32.Vec3, steps+1)
	for i := range pts {
		f := float32(i) / float32(steps)
		d := mgl32.QuatRotate(angle*f, axis).Rotate(ua)
		pts[i] = center.Add(d.Mul(ra + (rb-ra)*f))
	}
	return pts
}

func (t *tessellator) arc(c ArcCommand) {
	pts := arcPoints(c.Center, c.P1, c.P2, DefaultCircleSegments)
	for i := 1; i < len(pts); i++ {
		t.line(pts[i-1], pts[i], c.Color)
	}
	size := c.ArrowSize
	if size == 0 {
		size = c.Header.ArrowSize
	}
	n := len(pts)
	t.arrow(pts[n-2], pts[n-1], size, c.ArrowColor)
	if c.ShowRoot {
		t.line(c.Center, c.P1, c.ArrowColor)
		t.line(c.Center, c.P2, c.ArrowColor)
	}
}

func (t *tessellator) thickArc(c ThickArcCommand) {
	pts := arcPoints(c.Center, c.P1, c.P2, DefaultCircleSegments)
	r := c.Thickness / 2
	for i := 1; i < len(pts); i++ {
		t.cylinder(pts[i-1], pts[i], r, r, c.Color)
	}
	if c.ShowRoot {
		t.line(c.Center, c.P1, c.ArrowColor)
		t.line(c.Center, c.P2, c.ArrowColor)
	}
}

// text draws camera-facing wireframe glyphs whose first baseline starts at
// the transformed position. TextScale is the height of one line.
func (t *tessellator) text(c TextCommand) {
	font := text.Default()
	scale := c.TextScale
	if scale <= 0 {
		scale = DefaultTextScale
	}
	s := scale / font.LineHeight()
	origin := t.point(c.Pos)
	right, up := t.cam.Right().Mul(s), t.cam.Up().Mul(s)
	at := func(p text.Point) mgl32.Vec3 {
		return origin.Add(right.Mul(p.X)).Add(up.Mul(p.Y))
	}
	for _, seg := range font.Layout(c.Text) {
		t.b.DrawLine(at(seg.A), at(seg.B), c.Color, c.Color)
	}
}

func (t *tessellator) polygon(pts []mgl32.Vec3, c Color) {
	switch {
	case len(pts) < 2:
		return
	case len(pts) == 2:
		t.line(pts[0], pts[1], c)
		return
	}
	if t.solid() {
		n := newellNormal(pts)
		for i := 1; i+1 < len(pts); i++ {
			t.triangle([3]mgl32.Vec3{pts[0], pts[i], pts[i+1]}, [3]mgl32.Vec3{n, n, n}, uniform(c))
		}
	}
	if t.wire() {
		t.loop(pts, t.wireColor(c))
	}
}

func uniform(c Color) [3]Color {
	return [3]Color{c, c, c}
}

// ringDirs returns n unit directions evenly spaced in the plane of u and v.
func ringDirs(u, v mgl32.Vec3, n int) []mgl32.Vec3 {
	dirs := make([]mgl32.Vec3, n)
	for i := range dirs {
		sin, cos := math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
		dirs[i] = u.Mul(cos).Add(v.Mul(sin))
	}
	return dirs
}

func ring(center, u, v mgl32.Vec3, r float32, n int) []mgl32.Vec3 {
	pts := ringDirs(u, v, n)
	for i, d := range pts {
		pts[i] = center.Add(d.Mul(r))
	}
	return pts
}

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// +Y for a degenerate one.
func faceNormal(p [3]mgl32.Vec3) mgl32.Vec3 {
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return axisY
}

// newellNormal returns the normal of a possibly non-planar polygon.
func newellNormal(pts []mgl32.Vec3) mgl32.Vec3 {
	var n mgl32.Vec3
	for i, cur := range pts {
		next := pts[(i+1)%len(pts)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return axisY
}
