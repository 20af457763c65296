// Package raster provides a software backend for debugdraw frames.
// It projects world-space lines and triangles through the camera and
// rasterizes them with golang.org/x/image/vector into an *image.RGBA.
//
// The backend serves two purposes:
//   - Local inspection of frames without a GPU (PNG snapshots, CI)
//   - Pixel tests of the tessellation
//
// # Limitations
//
// There is no depth buffer: primitives are painted in command order.
// Triangles are flat shaded with the average of their vertex colors.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/debugdraw/backends/raster"
//
//	// Create via registry
//	backend, _ := debugdraw.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend(raster.WithSize(800, 600))
//
//	frame := dc.EndFrame()
//	frame.Playback(backend, dc.Camera())
//	backend.SavePNG("frame.png")
package raster

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gogpu/debugdraw"
)

func init() {
	debugdraw.Register("raster", func() debugdraw.Backend {
		return NewBackend()
	})
}

// Defaults used by NewBackend.
const (
	DefaultWidth     = 512
	DefaultHeight    = 512
	DefaultLineWidth = 1.5
)

// DefaultBackground is the color the image is cleared to.
var DefaultBackground = debugdraw.RGB(0x20, 0x20, 0x28)

// gradientSteps is the number of flat pieces a gradient line is split into.
const gradientSteps = 8

// nearW is the clip-space w below which geometry is behind the eye.
const nearW = 1e-5

// Option configures a Backend.
type Option func(*Backend)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(b *Backend) {
		if width > 0 && height > 0 {
			b.width, b.height = width, height
		}
	}
}

// WithBackground sets the clear color.
func WithBackground(c debugdraw.Color) Option {
	return func(b *Backend) {
		b.background = c
	}
}

// WithLineWidth sets the line width in pixels.
func WithLineWidth(px float32) Option {
	return func(b *Backend) {
		if px > 0 {
			b.lineWidth = px
		}
	}
}

// Backend renders frames to a pixel image.
// It implements debugdraw.Backend, debugdraw.ImageBackend,
// debugdraw.WriterBackend and debugdraw.FileBackend.
type Backend struct {
	width      int
	height     int
	background debugdraw.Color
	lineWidth  float32

	img      *image.RGBA
	ras      vector.Rasterizer
	viewProj mgl32.Mat4
	// light points from the scene towards the camera.
	light mgl32.Vec3

	lines     int
	triangles int
}

// Ensure Backend implements all required interfaces.
var (
	_ debugdraw.Backend       = (*Backend)(nil)
	_ debugdraw.ImageBackend  = (*Backend)(nil)
	_ debugdraw.WriterBackend = (*Backend)(nil)
	_ debugdraw.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a raster backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: DefaultBackground,
		lineWidth:  DefaultLineWidth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin clears the image and captures the camera.
func (b *Backend) Begin(cam debugdraw.CameraView) error {
	b.img = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(b.background.NRGBA()), image.Point{}, draw.Src)
	b.viewProj = cam.ViewProjection
	b.light = mgl32.Vec3{cam.View[2], cam.View[6], cam.View[10]}
	if l := b.light.Len(); l > 0 {
		b.light = b.light.Mul(1 / l)
	}
	b.lines, b.triangles = 0, 0
	return nil
}

// End finishes the frame.
// After End is called, output methods (Image, WriteTo, SaveToFile) can be used.
func (b *Backend) End() error {
	if b.img == nil {
		return fmt.Errorf("raster: End without Begin")
	}
	return nil
}

// DrawLine implements debugdraw.Backend.
func (b *Backend) DrawLine(p1, p2 mgl32.Vec3, c1, c2 debugdraw.Color) {
	if b.img == nil {
		return
	}
	b.lines++

	a, e, ok := clipSegment(b.clip(p1), b.clip(p2))
	if !ok {
		return
	}
	s0, s1 := b.screen(a), b.screen(e)
	if c1 == c2 {
		b.segment(s0, s1, c1)
		return
	}
	d := s1.Sub(s0)
	for i := range gradientSteps {
		t0 := float32(i) / gradientSteps
		t1 := float32(i+1) / gradientSteps
		b.segment(s0.Add(d.Mul(t0)), s0.Add(d.Mul(t1)), c1.Lerp(c2, (t0+t1)/2))
	}
}

// DrawTriangle implements debugdraw.Backend.
func (b *Backend) DrawTriangle(v [3]debugdraw.Vertex) {
	if b.img == nil {
		return
	}
	b.triangles++

	poly := clipPolygon([]mgl32.Vec4{b.clip(v[0].Pos), b.clip(v[1].Pos), b.clip(v[2].Pos)})
	if len(poly) < 3 {
		return
	}
	pts := make([]mgl32.Vec2, len(poly))
	for i, p := range poly {
		pts[i] = b.screen(p)
	}
	b.fill(pts, b.shade(v))
}

// Image returns the rendered image. Valid after End.
func (b *Backend) Image() *image.RGBA {
	return b.img
}

// WriteTo writes the rendered image as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.img == nil {
		return 0, fmt.Errorf("raster: nothing rendered")
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.img)
	return cw.n, err
}

// SaveToFile saves the rendered image as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return f.Close()
}

// SavePNG is a convenience alias for SaveToFile.
func (b *Backend) SavePNG(path string) error {
	return b.SaveToFile(path)
}

// Width returns the image width.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the image height.
func (b *Backend) Height() int {
	return b.height
}

// Stats returns the number of lines and triangles received since Begin.
func (b *Backend) Stats() (lines, triangles int) {
	return b.lines, b.triangles
}

func (b *Backend) clip(p mgl32.Vec3) mgl32.Vec4 {
	return b.viewProj.Mul4x1(p.Vec4(1))
}

// screen maps a clip-space point to pixel coordinates, y down.
func (b *Backend) screen(p mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{
		(p[0]/p[3] + 1) * 0.5 * float32(b.width),
		(1 - p[1]/p[3]) * 0.5 * float32(b.height),
	}
}

// shade averages the vertex colors and darkens faces turned away from
// the camera.
func (b *Backend) shade(v [3]debugdraw.Vertex) debugdraw.Color {
	var a, r, g, bl float32
	for _, vx := range v {
		a += float32(vx.Color.A())
		r += float32(vx.Color.R())
		g += float32(vx.Color.G())
		bl += float32(vx.Color.B())
	}
	c := debugdraw.ARGB(uint8(a/3+0.5), uint8(r/3+0.5), uint8(g/3+0.5), uint8(bl/3+0.5))

	n := v[0].Normal.Add(v[1].Normal).Add(v[2].Normal)
	l := n.Len()
	if l == 0 || b.light.Len() == 0 {
		return c
	}
	return c.Scale(0.3 + 0.7*math32.Abs(n.Dot(b.light)/l))
}

// segment fills a line of lineWidth pixels between two screen points.
func (b *Backend) segment(a, e mgl32.Vec2, c debugdraw.Color) {
	hw := b.lineWidth / 2
	d := e.Sub(a)
	l := d.Len()
	if l < 1e-6 {
		b.fill([]mgl32.Vec2{
			{a[0] - hw, a[1] - hw}, {a[0] + hw, a[1] - hw},
			{a[0] + hw, a[1] + hw}, {a[0] - hw, a[1] + hw},
		}, c)
		return
	}
	n := mgl32.Vec2{-d[1], d[0]}.Mul(hw / l)
	b.fill([]mgl32.Vec2{a.Add(n), e.Add(n), e.Sub(n), a.Sub(n)}, c)
}

// fill rasterizes a closed polygon over the image. The polygon is clipped
// to its pixel bounds within the image and the rasterizer is sized to them.
func (b *Backend) fill(pts []mgl32.Vec2, c debugdraw.Color) {
	if c.A() == 0 {
		return
	}
	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for _, p := range pts {
		if !finite(p[0]) || !finite(p[1]) {
			return
		}
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	bounds := b.img.Bounds()
	if minX > float32(bounds.Max.X) || minY > float32(bounds.Max.Y) || maxX < 0 || maxY < 0 {
		return
	}
	r := image.Rect(
		int(math32.Floor(max(minX, 0))), int(math32.Floor(max(minY, 0))),
		int(math32.Ceil(min(maxX, float32(bounds.Max.X)))), int(math32.Ceil(min(maxY, float32(bounds.Max.Y)))),
	).Intersect(bounds)
	if r.Empty() {
		return
	}

	off := mgl32.Vec2{float32(r.Min.X), float32(r.Min.Y)}
	local := make([]mgl32.Vec2, len(pts))
	for i, p := range pts {
		local[i] = p.Sub(off)
	}
	local = clipRect(local, float32(r.Dx()), float32(r.Dy()))
	if len(local) < 3 {
		return
	}

	b.ras.Reset(r.Dx(), r.Dy())
	b.ras.DrawOp = draw.Over
	b.ras.MoveTo(local[0][0], local[0][1])
	for _, p := range local[1:] {
		b.ras.LineTo(p[0], p[1])
	}
	b.ras.ClosePath()
	b.ras.Draw(b.img, r, image.NewUniform(c.NRGBA()), image.Point{})
}

// clipSegment clips a clip-space segment to the half-space w >= nearW.
func clipSegment(a, e mgl32.Vec4) (mgl32.Vec4, mgl32.Vec4, bool) {
	da, de := a[3]-nearW, e[3]-nearW
	switch {
	case da < 0 && de < 0:
		return a, e, false
	case da < 0:
		a = lerp4(a, e, da/(da-de))
	case de < 0:
		e = lerp4(e, a, de/(de-da))
	}
	return a, e, true
}

// clipPolygon clips a convex clip-space polygon to w >= nearW.
func clipPolygon(in []mgl32.Vec4) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, 0, len(in)+1)
	for i, cur := range in {
		next := in[(i+1)%len(in)]
		dc, dn := cur[3]-nearW, next[3]-nearW
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, lerp4(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

// clipRect clips a polygon to the rectangle [0, w] x [0, h].
func clipRect(pts []mgl32.Vec2, w, h float32) []mgl32.Vec2 {
	edges := [4]struct {
		axis  int
		bound float32
		upper bool
	}{{0, 0, false}, {0, w, true}, {1, 0, false}, {1, h, true}}

	for _, e := range edges {
		if len(pts) == 0 {
			return nil
		}
		inside := func(p mgl32.Vec2) float32 {
			if e.upper {
				return e.bound - p[e.axis]
			}
			return p[e.axis] - e.bound
		}
		out := make([]mgl32.Vec2, 0, len(pts)+1)
		for i, cur := range pts {
			next := pts[(i+1)%len(pts)]
			dc, dn := inside(cur), inside(next)
			if dc >= 0 {
				out = append(out, cur)
			}
			if (dc >= 0) != (dn >= 0) {
				t := dc / (dc - dn)
				out = append(out, cur.Add(next.Sub(cur).Mul(t)))
			}
		}
		pts = out
	}
	return pts
}

func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
