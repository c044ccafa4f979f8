package zpl

import "math"

// Resolution is the dot density of a printer head in dots per millimeter,
// e.g. 12 for a 300dpi head. All caller-facing dimensions in this package
// are millimeters; they are converted to dots only when commands are built.
type Resolution float64

// Dots converts a millimeter quantity to whole printer dots, rounding half
// away from zero. Truncation errors here are visible on the printed label,
// so every conversion in the package goes through this one function.
func (r Resolution) Dots(mm float64) int {
	return int(math.Round(mm * float64(r)))
}
