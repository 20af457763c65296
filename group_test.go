package debugdraw

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDrawGroupRegistryIDs(t *testing.T) {
	r := NewDrawGroupRegistry()
	for want := GroupID(0); want < 3; want++ {
		id, ok := r.Allocate(mgl32.Ident4())
		if !ok || id != want {
			t.Errorf("Allocate() = %d, %v; want %d, true", id, ok, want)
		}
	}
	if !r.Release(1) {
		t.Fatal("Release(1) = false")
	}
	if id, _ := r.Allocate(mgl32.Ident4()); id != 3 {
		t.Errorf("Allocate() after release = %d, want 3", id)
	}
	if r.Release(1) {
		t.Error("second Release(1) = true, want false")
	}
	if got := r.IDs(); len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 3 {
		t.Errorf("IDs() = %v, want [0 2 3]", got)
	}
}

func TestDrawGroupRegistryExhausted(t *testing.T) {
	r := NewDrawGroupRegistry()
	r.next = 1<<31 - 1
	if id, ok := r.Allocate(mgl32.Ident4()); ok || id != NoGroup {
		t.Errorf("Allocate() = %d, %v; want NoGroup, false", id, ok)
	}
}

func TestDrawGroupRegistryChanges(t *testing.T) {
	r := NewDrawGroupRegistry()
	a, _ := r.Allocate(mgl32.Ident4())
	b, _ := r.Allocate(mgl32.Ident4())

	poses, released := r.takeChanges()
	if len(poses) != 2 || poses[0].ID != a || poses[1].ID != b || len(released) != 0 {
		t.Fatalf("takeChanges() = %v, %v; want both groups, nothing released", poses, released)
	}

	r.SetPose(b, mgl32.Translate3D(1, 0, 0))
	r.Release(a)
	poses, released = r.takeChanges()
	if len(poses) != 1 || poses[0].ID != b {
		t.Errorf("poses = %v, want only group %d", poses, b)
	}
	if len(released) != 1 || released[0] != a {
		t.Errorf("released = %v, want [%d]", released, a)
	}

	poses, released = r.takeChanges()
	if len(poses) != 0 || len(released) != 0 {
		t.Errorf("takeChanges() without changes = %v, %v; want empty", poses, released)
	}
}

// TestDrawGroupRepose draws a line in a group and moves the group
// afterwards: the rendered line follows the new pose.
func TestDrawGroupRepose(t *testing.T) {
	dc := New()
	id := dc.BeginDrawGroup(mgl32.Ident4())
	if id != 0 {
		t.Fatalf("BeginDrawGroup() = %d, want 0", id)
	}
	dc.DebugLine(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0})
	dc.EndDrawGroup()
	dc.SetDrawGroupPose(id, mgl32.Translate3D(0, 5, 0))

	r := play(t, dc)
	if len(r.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(r.lines))
	}
	if got, want := r.lines[0].A, (mgl32.Vec3{1, 5, 0}); !near(got, want) {
		t.Errorf("A = %v, want %v", got, want)
	}
	if got, want := r.lines[0].B, (mgl32.Vec3{2, 5, 0}); !near(got, want) {
		t.Errorf("B = %v, want %v", got, want)
	}
}

func TestDrawGroupComposesGlobalPose(t *testing.T) {
	dc := New()
	dc.SetPosition(mgl32.Vec3{10, 0, 0})
	id := dc.BeginDrawGroup(mgl32.Translate3D(0, 1, 0))
	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	dc.EndDrawGroup()

	r := play(t, dc)
	if got, want := r.lines[0].A, (mgl32.Vec3{10, 1, 0}); !near(got, want) {
		t.Errorf("A = %v, want %v", got, want)
	}

	dc.SetDrawGroupPose(id, mgl32.Translate3D(0, 2, 0))
	r = play(t, dc)
	if got, want := r.lines[0].A, (mgl32.Vec3{10, 2, 0}); !near(got, want) {
		t.Errorf("A after repose = %v, want %v", got, want)
	}
}

func TestDrawGroupPoseRestored(t *testing.T) {
	dc := New()
	base := mgl32.Translate3D(1, 2, 3)
	dc.SetPose(base)

	dc.BeginDrawGroup(mgl32.Ident4())
	dc.SetPosition(mgl32.Vec3{9, 9, 9})
	dc.EndDrawGroup()
	if dc.Pose() != base {
		t.Errorf("Pose() after EndDrawGroup = %v, want %v", dc.Pose(), base)
	}

	dc.BeginDrawGroup(mgl32.Ident4())
	dc.SetPosition(mgl32.Vec3{9, 9, 9})
	second := dc.BeginDrawGroup(mgl32.Ident4())
	if dc.Pose() != base {
		t.Errorf("Pose() after replacing group = %v, want %v", dc.Pose(), base)
	}
	if dc.ActiveDrawGroup() != second {
		t.Errorf("ActiveDrawGroup() = %d, want %d", dc.ActiveDrawGroup(), second)
	}

	dc.EndDrawGroup()
	dc.EndDrawGroup()
	if dc.ActiveDrawGroup() != NoGroup {
		t.Errorf("ActiveDrawGroup() = %d, want NoGroup", dc.ActiveDrawGroup())
	}
}

func TestDrawGroupUnknown(t *testing.T) {
	var got []error
	dc := New(WithErrorHandler(func(err error) { got = append(got, err) }))

	dc.SetDrawGroupPose(3, mgl32.Translate3D(1, 0, 0))
	dc.ReleaseDrawGroup(4)

	if len(got) != 2 {
		t.Fatalf("handler called %d times, want 2", len(got))
	}
	for i, id := range []GroupID{3, 4} {
		var ge *GroupError
		if !errors.As(got[i], &ge) || ge.ID != id {
			t.Errorf("error %d = %v, want *GroupError for %d", i, got[i], id)
		}
		if !errors.Is(got[i], ErrUnknownDrawGroup) {
			t.Errorf("error %d does not match ErrUnknownDrawGroup", i)
		}
	}
	if _, ok := dc.DrawGroupPose(3); ok {
		t.Error("DrawGroupPose(3) reported a live group")
	}
}

func TestDrawGroupRetainedAcrossFrames(t *testing.T) {
	dc := New()
	dc.BeginDrawGroup(mgl32.Ident4())
	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	dc.EndDrawGroup()
	dc.DebugLine(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	if n := len(dc.EndFrame().Commands()); n != 2 {
		t.Errorf("frame 1 commands = %d, want 2", n)
	}
	for i := 2; i <= 3; i++ {
		if n := len(dc.EndFrame().Commands()); n != 1 {
			t.Errorf("frame %d commands = %d, want 1", i, n)
		}
	}
}

func TestReleaseDrawGroup(t *testing.T) {
	dc := New()
	keep := dc.BeginDrawGroup(mgl32.Ident4())
	dc.DebugPoint(mgl32.Vec3{}, 1)
	drop := dc.BeginDrawGroup(mgl32.Ident4())
	dc.DebugPoint(mgl32.Vec3{}, 1)
	dc.DebugPoint(mgl32.Vec3{}, 1)

	dc.ReleaseDrawGroup(drop)
	if dc.ActiveDrawGroup() != NoGroup {
		t.Errorf("ActiveDrawGroup() after releasing it = %d, want NoGroup", dc.ActiveDrawGroup())
	}

	f := dc.EndFrame()
	if n := len(f.Commands()); n != 1 {
		t.Fatalf("commands = %d, want 1", n)
	}
	if g := f.Commands()[0].Head().Group; g != keep {
		t.Errorf("remaining command group = %d, want %d", g, keep)
	}
	if _, ok := f.GroupPose(drop); ok {
		t.Error("released group still in frame")
	}
	if id := dc.BeginDrawGroup(mgl32.Ident4()); id != 2 {
		t.Errorf("BeginDrawGroup() after release = %d, want 2", id)
	}
}
