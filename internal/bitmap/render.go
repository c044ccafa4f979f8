package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// ImageSource adapts a decoded image to the raster sizes a label graphic
// asks for. Rendering is deterministic: the same image and target size
// always yield the same raster.
type ImageSource struct {
	image image.Image
	// Gamma applied to the grayscale values before dithering; label heads
	// print dark, so values below 1 lighten the result. 1 disables it.
	Gamma float64
}

func NewImageSource(i image.Image) *ImageSource {
	return &ImageSource{image: i, Gamma: 1}
}

// SourceSize returns the pixel dimensions of the underlying image, used to
// derive a proportional target height when the caller gives none.
func (s *ImageSource) SourceSize() (int, int) {
	return s.image.Bounds().Dx(), s.image.Bounds().Dy()
}

// Raster rescales the image to exactly width x height pixels, converts it
// to grayscale and dithers it down to ink/no-ink. A set bit means ink.
func (s *ImageSource) Raster(width, height int) (Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster size %dx%d must be positive", width, height)
	}

	scaledBounds := image.Rect(0, 0, width, height)
	scaledImage := image.NewRGBA(scaledBounds)
	draw.CatmullRom.Scale(scaledImage, scaledBounds, s.image, s.image.Bounds(), draw.Over, nil)

	monochromeImage := image.NewGray16(scaledBounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grayColor := color.Gray16Model.Convert(scaledImage.At(x, y)).(color.Gray16)
			grayValue := float64(grayColor.Y) / float64(0xFFFF)
			scaledGrayValue := math.Pow(grayValue, s.Gamma)
			monochromeImage.Set(x, y, color.Gray16{Y: uint16(scaledGrayValue * float64(0xFFFF))})
		}
	}

	palette := []color.Color{color.Black, color.White}
	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true
	ditheredImage := ditherer.DitherPaletted(monochromeImage)

	return FromPaletted(ditheredImage)
}

// FromPaletted maps a two-colour paletted image to a PixelBitmap, treating
// the palette colour closest to black as ink. This inverts the usual
// "white background" convention of source images into the wire convention
// where a set bit prints.
func FromPaletted(i *image.Paletted) (*PixelBitmap, error) {
	if len(i.Palette) != 2 {
		return nil, fmt.Errorf("image passed to FromPaletted must have only 2 colours in palette")
	}

	var colorMap [2]byte
	if i.Palette.Index(color.Black) == 0 {
		colorMap = [2]byte{1, 0}
	} else {
		colorMap = [2]byte{0, 1}
	}

	width, height := i.Bounds().Dx(), i.Bounds().Dy()
	pixels := make([][]byte, height)
	for y := range height {
		row := make([]byte, width)
		for x := range width {
			row[x] = colorMap[i.ColorIndexAt(x, y)]
		}
		pixels[y] = row
	}

	return &PixelBitmap{pixels: pixels, width: width, height: height}, nil
}
