package text

import (
	"errors"
	"testing"
)

func TestParseErrors(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("Parse(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := Parse([]byte("not a font")); err == nil {
		t.Error("Parse(garbage) error = nil")
	}
}

func TestDefaultShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned different fonts")
	}
	if lh := Default().LineHeight(); lh <= 0 || lh > 2 {
		t.Errorf("LineHeight() = %v, want (0, 2]", lh)
	}
}

func TestLayout(t *testing.T) {
	f := Default()
	if segs := f.Layout(""); len(segs) != 0 {
		t.Errorf("Layout(\"\") = %d segments, want 0", len(segs))
	}
	if segs := f.Layout("   "); len(segs) != 0 {
		t.Errorf("Layout(spaces) = %d segments, want 0", len(segs))
	}

	segs := f.Layout("H")
	if len(segs) == 0 {
		t.Fatal("Layout(\"H\") produced no segments")
	}
	for _, s := range segs {
		for _, p := range []Point{s.A, s.B} {
			if p.X < 0 || p.X > 1 || p.Y < -0.01 || p.Y > 1 {
				t.Errorf("point %+v of H outside the em box", p)
			}
		}
		if s.A == s.B {
			t.Errorf("degenerate segment %+v", s)
		}
	}
}

func TestLayoutAdvance(t *testing.T) {
	f := Default()
	one := f.Layout("I")
	two := f.Layout("II")
	if len(two) != 2*len(one) {
		t.Fatalf("Layout(\"II\") = %d segments, want %d", len(two), 2*len(one))
	}
	adv := f.Width("I")
	for i, s := range one {
		got := two[len(one)+i].A
		if d := got.X - (s.A.X + adv); d > 1e-5 || d < -1e-5 {
			t.Errorf("second glyph point %+v not shifted by %v", got, adv)
		}
	}
}

func TestLayoutNewline(t *testing.T) {
	f := Default()
	first := f.Layout("I")
	segs := f.Layout("\nI")
	if len(segs) != len(first) {
		t.Fatalf("segments = %d, want %d", len(segs), len(first))
	}
	if d := segs[0].A.Y - (first[0].A.Y - f.LineHeight()); d > 1e-5 || d < -1e-5 {
		t.Errorf("newline moved y by %v, want %v", segs[0].A.Y-first[0].A.Y, -f.LineHeight())
	}
	if segs[0].A.X != first[0].A.X {
		t.Errorf("newline did not reset x: %v != %v", segs[0].A.X, first[0].A.X)
	}
}

func TestLayoutMissingGlyph(t *testing.T) {
	f := Default()
	want := f.Layout(string(Placeholder))
	got := f.Layout("")
	if len(got) != len(want) {
		t.Errorf("missing glyph = %d segments, want placeholder's %d", len(got), len(want))
	}
}

func TestWidth(t *testing.T) {
	f := Default()
	if w := f.Width(""); w != 0 {
		t.Errorf("Width(\"\") = %v, want 0", w)
	}
	ab := f.Width("ab")
	if got := f.Width("a\nab\nb"); got != ab {
		t.Errorf("Width() = %v, want longest line %v", got, ab)
	}
	if f.Width("W") <= f.Width("i") {
		t.Error("Width(\"W\") <= Width(\"i\")")
	}
}
