package zpl

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestCompress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "A"},
		{"AB", "AB"},
		{"AAB", "HAB"},
		{strings.Repeat("A", 19), "YA"},
		{strings.Repeat("A", 20), "gA"}, // the dedicated 20-run glyph, not twenty 1-runs
		{strings.Repeat("F", 45), "hKF"},
		{strings.Repeat("0", 400), "z0"},
		{strings.Repeat("0", 405), "zK0"},
		{"FFC0FFC0", "HFC0HFC0"},
	}

	for _, c := range cases {
		if got := Compress(c.in); got != c.want {
			t.Errorf("Compress(%d chars %q...) = %q, want %q", len(c.in), prefix(c.in, 8), got, c.want)
		}
	}
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func TestExpand(t *testing.T) {
	if got := Expand("gA"); got != strings.Repeat("A", 20) {
		t.Errorf("Expand(\"gA\") = %q", got)
	}
	if got := Expand("zKF"); got != strings.Repeat("F", 405) {
		t.Errorf("Expand(\"zKF\") has length %d, want 405", len(got))
	}
}

// Expand must invert Compress for any payload over the hex alphabet.
func TestCompressRoundTrip(t *testing.T) {
	const testCaseCount = 30
	const alphabet = "0123456789ABCDEF"

	for i := range testCaseCount {
		t.Run(fmt.Sprintf("test %v", i), func(t *testing.T) {
			var b strings.Builder
			for b.Len() < 1+rand.IntN(2000) {
				ch := alphabet[rand.IntN(len(alphabet))]
				run := 1 + rand.IntN(50)
				for range run {
					b.WriteByte(ch)
				}
			}
			s := b.String()

			compressed := Compress(s)
			if got := Expand(compressed); got != s {
				t.Errorf("round trip failed for %d chars (compressed %d)", len(s), len(compressed))
			}
			if len(compressed) > len(s) {
				t.Errorf("compression grew input from %d to %d chars", len(s), len(compressed))
			}
		})
	}
}
