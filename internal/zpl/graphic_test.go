package zpl

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"zplpress/internal/bitmap"
)

// solidSource yields an all-ink raster of whatever size is requested.
type solidSource struct {
	srcWidth, srcHeight int
}

func (s solidSource) SourceSize() (int, int) { return s.srcWidth, s.srcHeight }

func (s solidSource) Raster(width, height int) (bitmap.Bitmap, error) {
	pixels := make([][]byte, height)
	for y := range height {
		row := make([]byte, width)
		for x := range width {
			row[x] = 1
		}
		pixels[y] = row
	}
	return bitmap.NewPixelBitmap(pixels)
}

// fixedSource yields one specific raster and expects to be asked for
// exactly its size; tests use a 1dpmm label so millimeters equal pixels.
type fixedSource struct {
	b *bitmap.PixelBitmap
}

func (s fixedSource) SourceSize() (int, int) { return s.b.Width(), s.b.Height() }

func (s fixedSource) Raster(width, height int) (bitmap.Bitmap, error) {
	if width != s.b.Width() || height != s.b.Height() {
		return nil, fmt.Errorf("unexpected raster size %dx%d", width, height)
	}
	return s.b, nil
}

func onebitLabel(t *testing.T) *Label {
	t.Helper()
	l, err := NewLabel(400, 400, 1)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestWriteGraphic(t *testing.T) {
	l := onebitLabel(t)
	pixels, err := bitmap.NewPixelBitmap([][]byte{
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1, 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	height, err := l.WriteGraphic(fixedSource{pixels}, 8, GraphicOptions{HeightMM: 2})
	if err != nil {
		t.Fatal(err)
	}
	if height != 2 {
		t.Errorf("height = %v, want 2", height)
	}
	if doc := l.Document(); !strings.Contains(doc, "^GFA,4,2,1,81FF") {
		t.Errorf("graphic fragment missing from %q", doc)
	}
}

func TestWriteGraphicPartialByte(t *testing.T) {
	l := onebitLabel(t)
	pixels, err := bitmap.NewPixelBitmap([][]byte{{1, 0, 1, 1}})
	if err != nil {
		t.Fatal(err)
	}

	// The trailing partial byte must be shifted into the high bits.
	if _, err := l.WriteGraphic(fixedSource{pixels}, 4, GraphicOptions{HeightMM: 1}); err != nil {
		t.Fatal(err)
	}
	if doc := l.Document(); !strings.Contains(doc, "^GFA,2,1,1,B0") {
		t.Errorf("graphic fragment missing from %q", doc)
	}
}

func TestWriteGraphicDerivedHeight(t *testing.T) {
	l := onebitLabel(t)

	height, err := l.WriteGraphic(solidSource{100, 50}, 10, GraphicOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if height != 5 {
		t.Errorf("derived height = %v, want 5", height)
	}
	// 10 dots wide is 2 bytes per row, 5 rows.
	if doc := l.Document(); !strings.Contains(doc, "^GFA,20,10,2,"+strings.Repeat("FFC0", 5)) {
		t.Errorf("graphic fragment missing from %q", doc)
	}
}

func TestWriteGraphicRunLength(t *testing.T) {
	l := onebitLabel(t)

	if _, err := l.WriteGraphic(solidSource{10, 5}, 10, GraphicOptions{HeightMM: 5, RunLength: true}); err != nil {
		t.Fatal(err)
	}
	// Headers still describe the uncompressed payload.
	doc := l.Document()
	if !strings.Contains(doc, "^GFA,20,10,2,") {
		t.Errorf("headers changed by run-length encoding: %q", doc)
	}
	if !strings.Contains(doc, Compress(strings.Repeat("FFC0", 5))) {
		t.Errorf("payload not run-length encoded: %q", doc)
	}
}

func TestWriteGraphicUnsupportedCompression(t *testing.T) {
	l := onebitLabel(t)
	for _, mode := range []Compression{CompressionBinary, CompressionPNG} {
		_, err := l.WriteGraphic(solidSource{8, 8}, 8, GraphicOptions{Compression: mode})
		if !errors.Is(err, ErrUnsupportedCompression) {
			t.Errorf("compression %q: expected ErrUnsupportedCompression, got %v", mode, err)
		}
	}
}

func TestUploadGraphic(t *testing.T) {
	l := onebitLabel(t)
	if _, err := l.UploadGraphic("LOGO", solidSource{10, 5}, 10, GraphicOptions{HeightMM: 5}); err != nil {
		t.Fatal(err)
	}
	if err := l.PrintGraphic("LOGO", 1, 1); err != nil {
		t.Fatal(err)
	}

	doc := l.Document()
	if !strings.Contains(doc, "~DGLOGO.GRF,10,2,"+strings.Repeat("FFC0", 5)) {
		t.Errorf("upload fragment missing from %q", doc)
	}
	if !strings.Contains(doc, "^XGLOGO,1,1") {
		t.Errorf("recall fragment missing from %q", doc)
	}
}

func TestUploadGraphicNameValidation(t *testing.T) {
	l := onebitLabel(t)
	for _, name := range []string{"", "TOO LONG!", "DOTTED.X", "NINECHARS"} {
		if _, err := l.UploadGraphic(name, solidSource{8, 8}, 8, GraphicOptions{}); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("name %q: expected ErrInvalidParameter, got %v", name, err)
		}
	}
}

func aRandomBitmap() *bitmap.PixelBitmap {
	width, height := 1+rand.IntN(100), 1+rand.IntN(100)
	pixels := make([][]byte, height)
	for y := range height {
		row := make([]byte, width)
		for x := range width {
			row[x] = byte(rand.IntN(2))
		}
		pixels[y] = row
	}
	b, _ := bitmap.NewPixelBitmap(pixels)
	return b
}

// Every pixel must survive the pack and hex encoding, MSB first per row.
func TestGraphicEncodingMany(t *testing.T) {
	const testCaseCount = 30

	for i := range testCaseCount {
		b := aRandomBitmap()
		t.Run(fmt.Sprintf("test %v: %s", i, b.String()), func(t *testing.T) {
			l, err := NewLabel(400, 400, 1)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := l.WriteGraphic(fixedSource{b}, float64(b.Width()),
				GraphicOptions{HeightMM: float64(b.Height())}); err != nil {
				t.Fatal(err)
			}

			doc := l.Document()
			payload := strings.TrimSuffix(doc[strings.LastIndex(doc, ",")+1:], "^XZ")
			data, err := hex.DecodeString(payload)
			if err != nil {
				t.Fatalf("payload not hex: %v", err)
			}

			stride := (b.Width() + 7) / 8
			for y := range b.Height() {
				for x := range b.Width() {
					bit := (data[y*stride+x/8] >> (7 - x%8)) & 1
					if bit != b.GetBit(x, y) {
						t.Fatalf("bit at (%v, %v) doesn't match: %v vs %v", x, y, bit, b.GetBit(x, y))
					}
				}
			}
		})
	}
}
