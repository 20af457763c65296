package debugdraw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// argKind is the static type carried by an Arg.
type argKind uint8

const (
	argInt argKind = iota
	argUint
	argFloat
	argString
	argBool
	argVec
)

// Arg is one typed argument of a DebugText format string.
// Build values with IntArg, UintArg, FloatArg, StrArg, BoolArg or VecArg.
type Arg struct {
	kind argKind
	i    int64
	u    uint64
	f    float64
	s    string
	v    mgl32.Vec3
}

// IntArg wraps a signed integer for %d, %i, %x, %X, %c and %v.
func IntArg(v int64) Arg { return Arg{kind: argInt, i: v} }

// UintArg wraps an unsigned integer for %d, %u, %x, %X and %v.
func UintArg(v uint64) Arg { return Arg{kind: argUint, u: v} }

// FloatArg wraps a float for %f, %F, %e, %g and %v.
func FloatArg(v float64) Arg { return Arg{kind: argFloat, f: v} }

// StrArg wraps a string for %s and %v.
func StrArg(v string) Arg { return Arg{kind: argString, s: v} }

// BoolArg wraps a bool for %t and %v.
func BoolArg(v bool) Arg { return Arg{kind: argBool, i: boolToInt(v)} }

// VecArg wraps a vector for %f, %e, %g and %v; each component is
// formatted with the directive and the result is "(x, y, z)".
func VecArg(v mgl32.Vec3) Arg { return Arg{kind: argVec, v: v} }

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// badDirective is rendered in place of a directive that cannot be formatted.
const badDirective = "?"

// MaxFormatWidth bounds the width and precision of a directive.
const MaxFormatWidth = 64

// FormatText expands a printf-style format with typed arguments.
//
// Supported directives: %d %i %u %x %X %c %f %F %e %g %s %t %v and %%,
// with optional flags ("-+ 0"), width and precision (at most
// MaxFormatWidth) and an explicit argument
// index ("%[2]d", 1-based). A directive that is unknown, lacks an argument
// or does not match its argument's type renders as "?". The first such
// problem, or unused arguments, is returned as an error wrapping ErrFormat;
// the string is always complete.
func FormatText(format string, args ...Arg) (string, error) {
	var (
		b     strings.Builder
		first error
		next  int
		used  = make([]bool, len(args))
	)
	fail := func(err error) {
		if first == nil {
			first = err
		}
		b.WriteString(badDirective)
	}

	for i := 0; i < len(format); {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		d, n := parseDirective(format[i:])
		i += n
		if d.verb == '%' {
			b.WriteByte('%')
			continue
		}
		if d.verb == 0 {
			fail(fmt.Errorf("%w: incomplete directive %q", ErrFormat, format[i-n:i]))
			continue
		}

		idx := next
		if d.index > 0 {
			idx = d.index - 1
		}
		next = idx + 1
		if idx < 0 || idx >= len(args) {
			fail(fmt.Errorf("%w: %q has no argument", ErrFormat, d.raw))
			continue
		}
		used[idx] = true
		if exceeds(d.width) || exceeds(strings.TrimPrefix(d.prec, ".")) {
			fail(fmt.Errorf("%w: %q is wider than %d", ErrFormat, d.raw, MaxFormatWidth))
			continue
		}
		s, ok := d.render(args[idx])
		if !ok {
			fail(fmt.Errorf("%w: %q does not accept argument %d", ErrFormat, d.raw, idx+1))
			continue
		}
		b.WriteString(s)
	}

	if first == nil {
		for i, u := range used {
			if !u {
				first = fmt.Errorf("%w: argument %d unused", ErrFormat, i+1)
				break
			}
		}
	}
	return b.String(), first
}

// directive is one parsed %-directive.
type directive struct {
	raw   string
	flags string
	width string
	prec  string
	index int
	verb  byte
}

// parseDirective parses the directive at the start of s (s[0] == '%') and
// returns it with the number of bytes consumed. verb is 0 if the directive
// is truncated.
func parseDirective(s string) (directive, int) {
	var d directive
	i := 1
	if i < len(s) && s[i] == '[' {
		end := strings.IndexByte(s[i:], ']')
		if end > 0 {
			if n, err := strconv.Atoi(s[i+1 : i+end]); err == nil && n > 0 {
				d.index = n
			} else {
				d.index = -1
			}
			i += end + 1
		}
	}
	start := i
	for i < len(s) && strings.IndexByte("-+ 0", s[i]) >= 0 {
		i++
	}
	d.flags = s[start:i]
	start = i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	d.width = s[start:i]
	if i < len(s) && s[i] == '.' {
		start = i
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		d.prec = s[start:i]
	}
	if i >= len(s) {
		d.raw = s
		return d, len(s)
	}
	d.verb = s[i]
	i++
	d.raw = s[:i]
	if d.index < 0 {
		// A malformed index cannot name any argument.
		d.index = 1 << 30
	}
	return d, i
}

// exceeds reports whether a width or precision is above MaxFormatWidth.
func exceeds(digits string) bool {
	if digits == "" {
		return false
	}
	n, err := strconv.Atoi(digits)
	return err != nil || n > MaxFormatWidth
}

// spec rebuilds a fmt directive with the given verb.
func (d directive) spec(verb byte) string {
	return "%" + d.flags + d.width + d.prec + string(verb)
}

// render formats a against the directive, reporting false on a mismatch.
func (d directive) render(a Arg) (string, bool) {
	switch d.verb {
	case 'd', 'i':
		switch a.kind {
		case argInt:
			return fmt.Sprintf(d.spec('d'), a.i), true
		case argUint:
			return fmt.Sprintf(d.spec('d'), a.u), true
		}
	case 'u':
		if a.kind == argUint {
			return fmt.Sprintf(d.spec('d'), a.u), true
		}
		if a.kind == argInt && a.i >= 0 {
			return fmt.Sprintf(d.spec('d'), a.i), true
		}
	case 'x', 'X':
		switch a.kind {
		case argInt:
			return fmt.Sprintf(d.spec(d.verb), a.i), true
		case argUint:
			return fmt.Sprintf(d.spec(d.verb), a.u), true
		}
	case 'c':
		if a.kind == argInt || a.kind == argUint {
			r := rune(a.i)
			if a.kind == argUint {
				r = rune(a.u)
			}
			return fmt.Sprintf(d.spec('c'), r), true
		}
	case 'f', 'F', 'e', 'g':
		switch a.kind {
		case argFloat:
			return fmt.Sprintf(d.spec(d.verb), a.f), true
		case argVec:
			return d.vec(d.verb, a.v), true
		}
	case 's':
		if a.kind == argString {
			return fmt.Sprintf(d.spec('s'), a.s), true
		}
	case 't':
		if a.kind == argBool {
			return fmt.Sprintf(d.spec('t'), a.i != 0), true
		}
	case 'v':
		switch a.kind {
		case argInt:
			return fmt.Sprintf(d.spec('d'), a.i), true
		case argUint:
			return fmt.Sprintf(d.spec('d'), a.u), true
		case argFloat:
			return fmt.Sprintf(d.spec('g'), a.f), true
		case argString:
			return fmt.Sprintf(d.spec('s'), a.s), true
		case argBool:
			return fmt.Sprintf(d.spec('t'), a.i != 0), true
		case argVec:
			return d.vec('g', a.v), true
		}
	}
	return "", false
}

func (d directive) vec(verb byte, v mgl32.Vec3) string {
	spec := d.spec(verb)
	return "(" + fmt.Sprintf(spec, v[0]) + ", " + fmt.Sprintf(spec, v[1]) + ", " + fmt.Sprintf(spec, v[2]) + ")"
}
