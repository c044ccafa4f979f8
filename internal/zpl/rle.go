// This file implements the Zebra run-length encoding used to shrink ^GF
// graphic payloads. Run lengths 1-19 are encoded by the glyphs 'G'-'Y' and
// multiples of 20 up to 400 by 'g'-'z'; a count glyph sequence is followed
// by the literal character it repeats. See the ZPL II programming guide.
package zpl

import "strings"

var runGlyphs = func() map[int]byte {
	m := make(map[int]byte, 39)
	for n := 1; n <= 19; n++ {
		m[n] = byte('G' + n - 1)
	}
	for n := 1; n <= 20; n++ {
		m[n*20] = byte('g' + n - 1)
	}
	return m
}()

// Denominations available to the greedy decomposition, largest first.
var runCounts = func() []int {
	counts := make([]int, 0, len(runGlyphs))
	for n := 400; n >= 20; n -= 20 {
		counts = append(counts, n)
	}
	for n := 19; n >= 1; n-- {
		counts = append(counts, n)
	}
	return counts
}()

var glyphCounts = func() map[byte]int {
	m := make(map[byte]int, len(runGlyphs))
	for n, g := range runGlyphs {
		m[g] = n
	}
	return m
}()

// Compress collapses every maximal run of one repeated character into count
// glyphs followed by the literal. It only ever looks at single-character
// runs, never cross-character patterns. Compress("") is "".
func Compress(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := i + 1
		for j < len(s) && s[j] == s[i] {
			j++
		}
		writeRun(&b, j-i, s[i])
		i = j
	}
	return b.String()
}

func writeRun(b *strings.Builder, count int, literal byte) {
	var glyphs []byte
	for count > 0 {
		for _, n := range runCounts {
			if n <= count {
				count -= n
				glyphs = append(glyphs, runGlyphs[n])
				break
			}
		}
	}

	// A run of exactly one is written as the bare literal.
	if len(glyphs) == 1 && glyphs[0] == 'G' {
		b.WriteByte(literal)
		return
	}
	b.Write(glyphs)
	b.WriteByte(literal)
}

// Expand is the inverse of Compress for payloads whose alphabet is disjoint
// from the count glyphs, which holds for the uppercase hex data Compress is
// applied to. Count glyphs are summed until a literal is reached.
func Expand(s string) string {
	var b strings.Builder
	count := 0
	for i := 0; i < len(s); i++ {
		if n, ok := glyphCounts[s[i]]; ok {
			count += n
			continue
		}
		if count == 0 {
			count = 1
		}
		for ; count > 0; count-- {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
