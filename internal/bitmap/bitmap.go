// Package bitmap supplies the monochrome rasters embedded in label
// graphics. It defines an interface for a simple bitmap structure that has
// a width, height, and can get bits from the bitmap by (x,y) coordinate,
// where a set bit means ink (black). PixelBitmap stores each pixel in a
// byte in a 2D array format; ImageSource turns an arbitrary image.Image
// into rasters of a requested size by rescaling and dithering.
package bitmap

import (
	"fmt"
)

type Bitmap interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

type PixelBitmap struct {
	pixels        [][]byte
	width, height int
}

// NewPixelBitmap wraps row-major pixel rows, one byte per pixel, 1 = ink.
// All rows must have equal length.
func NewPixelBitmap(pixels [][]byte) (*PixelBitmap, error) {
	if len(pixels) == 0 || len(pixels[0]) == 0 {
		return nil, fmt.Errorf("bitmap must have at least one row and column")
	}
	width := len(pixels[0])
	for y, row := range pixels {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d pixels, expecting %d", y, len(row), width)
		}
	}
	return &PixelBitmap{pixels: pixels, width: width, height: len(pixels)}, nil
}

func (b *PixelBitmap) Width() int {
	return b.width
}

func (b *PixelBitmap) Height() int {
	return b.height
}

func (b *PixelBitmap) GetBit(x int, y int) byte {
	return b.pixels[y][x]
}

func (b *PixelBitmap) String() string {
	return fmt.Sprintf("PixelBitmap(%d,%d)", b.width, b.height)
}
