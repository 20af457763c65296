// Package text turns strings into wireframe line geometry for debug
// visualization.
//
// Two concerns live here:
//
//   - Sanitize restricts a string to the supported character set (printable
//     ASCII plus newline). Accented letters are folded to their base letter;
//     anything else becomes Placeholder.
//   - Font extracts glyph outlines with golang.org/x/image/font/sfnt and
//     flattens them into line segments in em units.
//
// # Example
//
//	s, _ := text.Sanitize("Vélocité: 3 m/s")  // "Velocite: 3 m/s"
//	segs := text.Default().Layout(s)
//	for _, seg := range segs {
//	    // seg.A and seg.B are in em units, x right, y up,
//	    // first baseline at y = 0.
//	}
package text
