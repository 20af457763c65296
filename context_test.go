package debugdraw

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// collect returns a context whose diagnostics are appended to *errs.
func collect(errs *[]error, opts ...Option) *Context {
	opts = append(opts, WithErrorHandler(func(err error) { *errs = append(*errs, err) }))
	return New(opts...)
}

func TestContextRefCounting(t *testing.T) {
	var errs []error
	sink := &mockSink{}
	dc := collect(&errs, WithSink(sink))

	dc.Acquire()
	if dc.Refs() != 2 {
		t.Fatalf("Refs() = %d, want 2", dc.Refs())
	}
	dc.Release()
	if sink.closed != 0 {
		t.Errorf("sink closed with a reference left")
	}
	dc.Release()
	if sink.closed != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closed)
	}
	if len(errs) != 0 {
		t.Errorf("unexpected diagnostics: %v", errs)
	}
}

func TestContextReleased(t *testing.T) {
	var errs []error
	dc := collect(&errs)
	dc.Release()

	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	if f := dc.EndFrame(); f != nil {
		t.Errorf("EndFrame() after Release = %v, want nil", f)
	}
	if err := dc.Render(&recorder{}); !errors.Is(err, ErrReleased) {
		t.Errorf("Render() error = %v, want ErrReleased", err)
	}
	dc.Release()
	dc.Acquire()

	if len(errs) != 5 {
		t.Fatalf("diagnostics = %d, want 5: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrReleased) {
			t.Errorf("error = %v, want ErrReleased", err)
		}
	}
	if dc.Refs() != 0 {
		t.Errorf("Refs() = %d, want 0", dc.Refs())
	}
}

func TestContextNonFinite(t *testing.T) {
	var errs []error
	dc := collect(&errs)
	nan := math32.NaN()

	dc.DebugLine(mgl32.Vec3{nan, 0, 0}, mgl32.Vec3{1, nan, math32.Inf(1)})
	if len(errs) != 1 || !errors.Is(errs[0], ErrNonFinite) {
		t.Fatalf("errors = %v, want one ErrNonFinite", errs)
	}
	var op *OpError
	if !errors.As(errs[0], &op) || op.Op != "DebugLine" {
		t.Errorf("error = %v, want OpError for DebugLine", errs[0])
	}

	f := dc.EndFrame()
	line, ok := f.Commands()[0].(LineCommand)
	if !ok {
		t.Fatalf("command = %T, want LineCommand", f.Commands()[0])
	}
	if line.P1 != (mgl32.Vec3{}) || line.P2 != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("sanitized line = %v -> %v, want (0,0,0) -> (1,0,0)", line.P1, line.P2)
	}
}

func TestContextNonFiniteState(t *testing.T) {
	var errs []error
	dc := collect(&errs)

	dc.SetArrowSize(math32.Inf(-1))
	dc.SetPose(mgl32.Mat4{0: math32.NaN()})
	dc.SetTextScale(-2)

	if len(errs) != 2 {
		t.Fatalf("diagnostics = %d, want 2: %v", len(errs), errs)
	}
	if got := dc.State().ArrowSize; got != DefaultArrowSize {
		t.Errorf("ArrowSize = %v, want %v", got, DefaultArrowSize)
	}
	if dc.Pose() != mgl32.Ident4() {
		t.Errorf("Pose() = %v, want identity", dc.Pose())
	}
	if got := dc.State().TextScale; got != 2 {
		t.Errorf("TextScale = %v, want 2", got)
	}
}

func TestContextBadFormat(t *testing.T) {
	var errs []error
	dc := collect(&errs)

	dc.DebugText(mgl32.Vec3{}, "n=%d", StrArg("x"))
	if len(errs) != 1 || !errors.Is(errs[0], ErrFormat) {
		t.Fatalf("errors = %v, want one ErrFormat", errs)
	}
	cmd := dc.EndFrame().Commands()[0].(TextCommand)
	if cmd.Text != "n=?" {
		t.Errorf("Text = %q, want %q", cmd.Text, "n=?")
	}
}

func TestContextTextSanitized(t *testing.T) {
	dc := New()
	dc.DebugText(mgl32.Vec3{}, "%s\t%d", StrArg("Déjà vu"), IntArg(1))
	cmd := dc.EndFrame().Commands()[0].(TextCommand)
	if cmd.Text != "Deja vu 1" {
		t.Errorf("Text = %q, want %q", cmd.Text, "Deja vu 1")
	}
}

func TestContextStateUnderflow(t *testing.T) {
	var errs []error
	dc := collect(&errs)
	dc.SetCurrentColor(RGB(1, 1, 1), RGB(2, 2, 2))

	dc.PopRenderState()
	if len(errs) != 1 || !errors.Is(errs[0], ErrStateUnderflow) {
		t.Fatalf("errors = %v, want ErrStateUnderflow", errs)
	}
	if dc.CurrentColor() != RGB(1, 1, 1) {
		t.Errorf("failed pop changed the color to %v", dc.CurrentColor())
	}
}

func TestContextPushPop(t *testing.T) {
	dc := New()
	dc.SetCurrentColor(RGB(1, 0, 0), RGB(0, 1, 0))
	dc.SetRenderFlags(FlagSolid)
	id := dc.BeginDrawGroup(mgl32.Ident4())

	dc.PushRenderState()
	dc.SetCurrentColor(RGB(9, 9, 9), RGB(9, 9, 9))
	dc.SetRenderFlags(0)
	dc.SetArrowSize(3)
	dc.EndDrawGroup()
	dc.SetPosition(mgl32.Vec3{4, 4, 4})
	dc.PopRenderState()

	st := dc.State()
	if st.Color != RGB(1, 0, 0) || st.ArrowColor != RGB(0, 1, 0) {
		t.Errorf("colors = %v/%v, want restored", st.Color, st.ArrowColor)
	}
	if st.Flags != FlagSolid {
		t.Errorf("Flags = %v, want FlagSolid", st.Flags)
	}
	if st.ArrowSize != DefaultArrowSize {
		t.Errorf("ArrowSize = %v, want %v", st.ArrowSize, DefaultArrowSize)
	}
	if st.Group != id {
		t.Errorf("Group = %d, want %d", st.Group, id)
	}
	if st.Pose != mgl32.Ident4() {
		t.Errorf("Pose = %v, want identity", st.Pose)
	}
}

func TestContextScopeRestoresAfterPanic(t *testing.T) {
	dc := New()
	func() {
		defer func() { _ = recover() }()
		dc.Scope(func() {
			dc.SetPosition(mgl32.Vec3{1, 2, 3})
			panic("boom")
		})
	}()
	if dc.Pose() != mgl32.Ident4() {
		t.Errorf("Pose() = %v, want identity", dc.Pose())
	}
	if dc.state.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", dc.state.Depth())
	}
}

func TestContextHeaderStamp(t *testing.T) {
	dc := New()
	dc.SetCurrentColor(RGB(10, 20, 30), RGB(40, 50, 60))
	dc.SetArrowSize(0.5)
	dc.SetRenderFlags(FlagSolid | FlagWireOverlay)
	dc.DebugRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})

	h := dc.EndFrame().Commands()[0].Head()
	if h.Color != RGB(10, 20, 30) || h.ArrowColor != RGB(40, 50, 60) {
		t.Errorf("colors = %v/%v", h.Color, h.ArrowColor)
	}
	if h.ArrowSize != 0.5 || h.Flags != FlagSolid|FlagWireOverlay || h.Group != NoGroup {
		t.Errorf("header = %+v", h)
	}
}

func TestContextMarkers(t *testing.T) {
	dc := New()
	p := mgl32.Vec3{1, 2, 3}
	dc.DebugRay(p, p)
	dc.DebugThickRay(p, p, 1, true)
	dc.DebugCylinder(p, p, 1)
	dc.DebugGradientLine(p, p, RGB(1, 2, 3), RGB(4, 5, 6))
	dc.DebugPolygon(p)

	cmds := dc.EndFrame().Commands()
	if len(cmds) != 5 {
		t.Fatalf("commands = %d, want 5", len(cmds))
	}
	for i, cmd := range cmds {
		pc, ok := cmd.(PointCommand)
		if !ok {
			t.Errorf("command %d = %T, want PointCommand", i, cmd)
			continue
		}
		if pc.Pos != p || pc.Radius != DefaultMarkerRadius {
			t.Errorf("marker %d = %v r=%v", i, pc.Pos, pc.Radius)
		}
	}
	if got := cmds[3].Head().Color; got != RGB(1, 2, 3) {
		t.Errorf("gradient marker color = %v, want the start color", got)
	}
}

func TestContextBoundReordered(t *testing.T) {
	dc := New()
	dc.DebugBound(Bounds{Min: mgl32.Vec3{1, -1, 5}, Max: mgl32.Vec3{-1, 1, 2}})
	b := dc.EndFrame().Commands()[0].(BoundCommand).Bounds
	if b.Min != (mgl32.Vec3{-1, -1, 2}) || b.Max != (mgl32.Vec3{1, 1, 5}) {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestContextPlaneNormalized(t *testing.T) {
	dc := New()
	dc.DebugPlane(NewPlane(0, 0, 4, 8), 1, 2)
	p := dc.EndFrame().Commands()[0].(PlaneCommand)
	if p.Plane.N != (mgl32.Vec3{0, 0, 1}) || p.Plane.D != 2 {
		t.Errorf("Plane = %+v, want N=(0,0,1) D=2", p.Plane)
	}
}

func TestContextClampsAtEmission(t *testing.T) {
	dc := New()
	dc.DebugSphere(mgl32.Vec3{}, 1, 100)
	dc.DebugCircle(mgl32.Vec3{}, 1, 1)
	cmds := dc.EndFrame().Commands()
	if got := cmds[0].(SphereCommand).Subdivision; got != MaxSphereSubdivision {
		t.Errorf("Subdivision = %d, want %d", got, MaxSphereSubdivision)
	}
	if got := cmds[1].(CircleCommand).Segments; got != MinCircleSegments {
		t.Errorf("Segments = %d, want %d", got, MinCircleSegments)
	}
}

func TestContextArcDefaultArrowSize(t *testing.T) {
	dc := New()
	dc.SetArrowSize(0.3)
	dc.DebugArc(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, math32.NaN(), true)
	arc := dc.EndFrame().Commands()[0].(ArcCommand)
	if arc.ArrowSize != 0.3 {
		t.Errorf("ArrowSize = %v, want 0.3", arc.ArrowSize)
	}
}

func TestContextPalette(t *testing.T) {
	dc := New()
	if got := dc.DebugColor(ColorRed); got != RGB(255, 0, 0) {
		t.Errorf("DebugColor(ColorRed) = %v", got)
	}
	dc.SetDebugColor(ColorRed, RGB(1, 2, 3))
	if got := dc.DebugColor(ColorRed); got != RGB(1, 2, 3) {
		t.Errorf("DebugColor(ColorRed) after set = %v", got)
	}
	if got := dc.DebugColor(numDebugColors + 3); got != dc.DebugColor(ColorDefault) {
		t.Errorf("out of range DebugColor = %v, want the default color", got)
	}
	if got := New().DebugColor(ColorRed); got != RGB(255, 0, 0) {
		t.Errorf("palette shared between contexts: %v", got)
	}
}

func TestContextRender(t *testing.T) {
	dc := New()
	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	r := &recorder{}
	if err := dc.Render(r); err != nil {
		t.Fatal(err)
	}
	if len(r.lines) != 1 {
		t.Errorf("lines = %d, want 1", len(r.lines))
	}
	// Render does not end the frame.
	if n := len(dc.EndFrame().Commands()); n != 1 {
		t.Errorf("commands after Render = %d, want 1", n)
	}
}

func TestContextReset(t *testing.T) {
	dc := New()
	dc.BeginDrawGroup(mgl32.Ident4())
	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	dc.PushRenderState()
	dc.SetCurrentColor(RGB(1, 1, 1), RGB(1, 1, 1))

	dc.Reset()
	if dc.ActiveDrawGroup() != NoGroup || dc.state.Depth() != 0 {
		t.Errorf("state not reset: group %d depth %d", dc.ActiveDrawGroup(), dc.state.Depth())
	}
	if dc.CurrentColor() != DefaultConfig().Color {
		t.Errorf("CurrentColor() = %v, want the configured color", dc.CurrentColor())
	}
	f := dc.EndFrame()
	if len(f.Commands()) != 0 || f.Groups() != 0 {
		t.Errorf("frame after Reset = %v, want empty", f)
	}
	if id := dc.BeginDrawGroup(mgl32.Ident4()); id != 1 {
		t.Errorf("BeginDrawGroup() after Reset = %d, want 1", id)
	}
}
