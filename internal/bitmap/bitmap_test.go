package bitmap

import (
	"image"
	"image/color"
	"testing"
)

func TestNewPixelBitmap(t *testing.T) {
	b, err := NewPixelBitmap([][]byte{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if b.Width() != 2 || b.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", b.Width(), b.Height())
	}
	if b.GetBit(0, 0) != 1 || b.GetBit(1, 0) != 0 || b.GetBit(0, 1) != 0 || b.GetBit(1, 1) != 1 {
		t.Error("bits don't match input pixels")
	}
}

func TestNewPixelBitmapValidation(t *testing.T) {
	cases := []struct {
		name   string
		pixels [][]byte
	}{
		{"empty", nil},
		{"empty row", [][]byte{{}}},
		{"ragged rows", [][]byte{{1, 0}, {1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewPixelBitmap(c.pixels); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFromPaletted(t *testing.T) {
	// Ink must follow the palette colour closest to black regardless of
	// index order.
	for _, palette := range []color.Palette{
		{color.Black, color.White},
		{color.White, color.Black},
	} {
		i := image.NewPaletted(image.Rect(0, 0, 2, 1), palette)
		i.Set(0, 0, color.Black)
		i.Set(1, 0, color.White)

		b, err := FromPaletted(i)
		if err != nil {
			t.Fatal(err)
		}
		if b.GetBit(0, 0) != 1 {
			t.Error("black pixel should be ink")
		}
		if b.GetBit(1, 0) != 0 {
			t.Error("white pixel should be blank")
		}
	}
}

func TestFromPalettedRequiresTwoColours(t *testing.T) {
	i := image.NewPaletted(image.Rect(0, 0, 1, 1),
		color.Palette{color.Black, color.White, color.Gray16{Y: 0x7FFF}})
	if _, err := FromPaletted(i); err == nil {
		t.Error("expected an error for a 3-colour palette")
	}
}

func TestImageSourceRaster(t *testing.T) {
	// A solid black source image rasters to all ink, white to all blank, at
	// any target size.
	cases := []struct {
		name string
		fill color.Color
		want byte
	}{
		{"black", color.Black, 1},
		{"white", color.White, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, 10, 10))
			for y := range 10 {
				for x := range 10 {
					src.Set(x, y, c.fill)
				}
			}

			b, err := NewImageSource(src).Raster(16, 4)
			if err != nil {
				t.Fatal(err)
			}
			if b.Width() != 16 || b.Height() != 4 {
				t.Fatalf("raster size = %dx%d, want 16x4", b.Width(), b.Height())
			}
			for y := range b.Height() {
				for x := range b.Width() {
					if b.GetBit(x, y) != c.want {
						t.Fatalf("bit at (%v, %v) = %v, want %v", x, y, b.GetBit(x, y), c.want)
					}
				}
			}
		})
	}
}

func TestImageSourceSize(t *testing.T) {
	src := NewImageSource(image.NewRGBA(image.Rect(0, 0, 30, 20)))
	w, h := src.SourceSize()
	if w != 30 || h != 20 {
		t.Errorf("SourceSize() = %v, %v", w, h)
	}
}

func TestRasterRejectsNonPositiveSize(t *testing.T) {
	src := NewImageSource(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if _, err := src.Raster(0, 4); err == nil {
		t.Error("expected an error for zero width")
	}
	if _, err := src.Raster(4, -1); err == nil {
		t.Error("expected an error for negative height")
	}
}
