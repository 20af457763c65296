package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Point is a 2D position in em units, x to the right and y up.
type Point struct {
	X, Y float32
}

// Segment is one line of a flattened glyph outline.
type Segment struct {
	A, B Point
}

// Curves are flattened into this many line segments.
const (
	quadSteps  = 4
	cubicSteps = 6
)

// outlinePPEM is the size outlines are loaded at; coordinates are divided
// by it to obtain em units.
const outlinePPEM = 64

// glyphLines is a cached flattened glyph.
type glyphLines struct {
	segs    []Segment
	advance float32
}

// Font produces wireframe line geometry from an sfnt font.
// Glyphs are flattened once and cached.
//
// Font is safe for concurrent use.
type Font struct {
	mu         sync.Mutex
	font       *sfnt.Font
	buf        sfnt.Buffer
	cache      map[rune]*glyphLines
	lineHeight float32
}

// Parse parses TrueType or OpenType data.
func Parse(data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	w := &Font{
		font:  f,
		cache: make(map[rune]*glyphLines),
	}
	if idx, err := f.GlyphIndex(&w.buf, Placeholder); err != nil || idx == 0 {
		return nil, ErrNoPlaceholder
	}
	m, err := f.Metrics(&w.buf, fixed.I(outlinePPEM), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: font metrics: %w", err)
	}
	w.lineHeight = fixedToEm(m.Height)
	if w.lineHeight <= 0 {
		w.lineHeight = 1.2
	}
	return w, nil
}

var defaultFont = sync.OnceValue(func() *Font {
	f, err := Parse(goregular.TTF)
	if err != nil {
		// goregular is embedded and known to parse.
		panic(err)
	}
	return f
})

// Default returns the shared Go Regular wireframe font.
func Default() *Font {
	return defaultFont()
}

// LineHeight returns the distance between baselines in em units.
func (f *Font) LineHeight() float32 {
	return f.lineHeight
}

// Layout returns the line segments of s in em units. The first baseline
// is at y = 0; each newline moves down by LineHeight. Characters without
// a glyph are drawn as Placeholder.
func (f *Font) Layout(s string) []Segment {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Segment
	var x, y float32
	for _, r := range s {
		if r == '\n' {
			x = 0
			y -= f.lineHeight
			continue
		}
		g := f.glyph(r)
		for _, seg := range g.segs {
			out = append(out, Segment{
				A: Point{X: seg.A.X + x, Y: seg.A.Y + y},
				B: Point{X: seg.B.X + x, Y: seg.B.Y + y},
			})
		}
		x += g.advance
	}
	return out
}

// Width returns the advance width of the longest line of s in em units.
func (f *Font) Width(s string) float32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var w, line float32
	for _, r := range s {
		if r == '\n' {
			w = max(w, line)
			line = 0
			continue
		}
		line += f.glyph(r).advance
	}
	return max(w, line)
}

// glyph returns the cached lines for r. f.mu must be held.
func (f *Font) glyph(r rune) *glyphLines {
	if g, ok := f.cache[r]; ok {
		return g
	}
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		if r == Placeholder {
			return &glyphLines{}
		}
		g := f.glyph(Placeholder)
		f.cache[r] = g
		return g
	}

	g := &glyphLines{}
	ppem := fixed.I(outlinePPEM)
	if adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone); err == nil {
		g.advance = fixedToEm(adv)
	}
	segments, err := f.font.LoadGlyph(&f.buf, idx, ppem, nil)
	if err == nil {
		g.segs = flatten(segments)
	}
	f.cache[r] = g
	return g
}

// flatten converts sfnt segments (y down) to line segments (y up).
func flatten(segments sfnt.Segments) []Segment {
	var (
		out        []Segment
		start, pen Point
		open       bool
	)
	lineTo := func(p Point) {
		if p != pen {
			out = append(out, Segment{A: pen, B: p})
		}
		pen = p
	}
	closeContour := func() {
		if open && pen != start {
			out = append(out, Segment{A: pen, B: start})
		}
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			start = toPoint(seg.Args[0])
			pen = start
			open = true
		case sfnt.SegmentOpLineTo:
			lineTo(toPoint(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p0, p1, p2 := pen, toPoint(seg.Args[0]), toPoint(seg.Args[1])
			for i := 1; i <= quadSteps; i++ {
				t := float32(i) / quadSteps
				u := 1 - t
				lineTo(Point{
					X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
					Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
				})
			}
		case sfnt.SegmentOpCubeTo:
			p0, p1, p2, p3 := pen, toPoint(seg.Args[0]), toPoint(seg.Args[1]), toPoint(seg.Args[2])
			for i := 1; i <= cubicSteps; i++ {
				t := float32(i) / cubicSteps
				u := 1 - t
				lineTo(Point{
					X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
					Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
				})
			}
		}
	}
	closeContour()
	return out
}

func toPoint(p fixed.Point26_6) Point {
	return Point{X: fixedToEm(p.X), Y: -fixedToEm(p.Y)}
}

// fixedToEm converts a 26.6 value at outlinePPEM to em units.
func fixedToEm(x fixed.Int26_6) float32 {
	return float32(x) / 64 / outlinePPEM
}
