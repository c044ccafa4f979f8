// This file implements the graphic encoder: it packs a 1bpp raster into the
// uppercase hex payload embedded in ^GF and ~DG commands.
package zpl

import (
	"encoding/hex"
	"fmt"
	"strings"

	"zplpress/internal/bitmap"
)

// Compression selects the ^GF payload representation. Only hex ASCII is
// implemented; the binary modes from the ZPL II guide are reserved and
// rejected with ErrUnsupportedCompression.
type Compression byte

const (
	CompressionHex    Compression = 'A'
	CompressionBinary Compression = 'B' // reserved, not implemented
	CompressionPNG    Compression = 'C' // reserved, not implemented
)

// Source is the external bitmap collaborator. It reports the pixel size of
// the original image and yields a monochrome raster resized to the
// requested dimensions, with set bits meaning ink.
type Source interface {
	SourceSize() (width, height int)
	Raster(width, height int) (bitmap.Bitmap, error)
}

// GraphicOptions carries the optional parameters of WriteGraphic and
// UploadGraphic.
type GraphicOptions struct {
	// HeightMM is the target height in millimeters; 0 derives it from the
	// source aspect ratio and the requested width, truncated to whole
	// millimeters.
	HeightMM float64
	// Compression defaults to CompressionHex.
	Compression Compression
	// RunLength applies the Zebra run-length encoding to the hex payload.
	// The numeric headers still describe the uncompressed data.
	RunLength bool
}

const bitsPerWord = 8

type encodedGraphic struct {
	data          string
	payloadLength int // hex characters before run-length encoding
	totalBytes    int
	bytesPerRow   int
	heightMM      float64
}

func (l *Label) encodeGraphic(src Source, widthMM float64, opts GraphicOptions) (*encodedGraphic, error) {
	if opts.Compression == 0 {
		opts.Compression = CompressionHex
	}
	if opts.Compression != CompressionHex {
		return nil, fmt.Errorf("compression type %q: %w", opts.Compression, ErrUnsupportedCompression)
	}
	if widthMM <= 0 {
		return nil, fmt.Errorf("graphic width %vmm: %w", widthMM, ErrInvalidParameter)
	}

	heightMM := opts.HeightMM
	if heightMM == 0 {
		srcWidth, srcHeight := src.SourceSize()
		heightMM = float64(int(float64(srcHeight) / float64(srcWidth) * widthMM))
	}

	widthDots := l.Resolution.Dots(widthMM)
	heightDots := l.Resolution.Dots(heightMM)
	raster, err := src.Raster(widthDots, heightDots)
	if err != nil {
		return nil, fmt.Errorf("couldn't rasterize graphic: %w", err)
	}

	packed := packRows(raster)
	data := strings.ToUpper(hex.EncodeToString(packed))

	bytesPerRow := (widthDots + bitsPerWord - 1) / bitsPerWord
	g := &encodedGraphic{
		data:          data,
		payloadLength: len(data),
		totalBytes:    bytesPerRow * heightDots,
		bytesPerRow:   bytesPerRow,
		heightMM:      heightMM,
	}
	if opts.RunLength {
		g.data = Compress(g.data)
	}
	return g, nil
}

// packRows packs raster bits most-significant-bit first, one row at a time.
// A partial trailing byte is shifted into the high bits so rows stay
// byte-aligned without disturbing pixel order.
func packRows(b bitmap.Bitmap) []byte {
	width, height := b.Width(), b.Height()
	stride := (width + bitsPerWord - 1) / bitsPerWord
	data := make([]byte, 0, stride*height)

	for y := range height {
		var p byte
		bits := 0
		for x := range width {
			p = p<<1 | (b.GetBit(x, y) & 1)
			bits++
			if bits == bitsPerWord {
				data = append(data, p)
				p, bits = 0, 0
			}
		}
		if bits > 0 {
			data = append(data, p<<(bitsPerWord-bits))
		}
	}
	return data
}

// WriteGraphic embeds the source image inline (^GFA) at the given width in
// millimeters and returns the rendered height in millimeters.
func (l *Label) WriteGraphic(src Source, widthMM float64, opts GraphicOptions) (float64, error) {
	g, err := l.encodeGraphic(src, widthMM, opts)
	if err != nil {
		return 0, err
	}
	l.commands = append(l.commands, inlineGraphicCommand{
		payloadLength: g.payloadLength,
		totalBytes:    g.totalBytes,
		bytesPerRow:   g.bytesPerRow,
		data:          g.data,
	})
	return g.heightMM, nil
}

// UploadGraphic stores the source image on the printer (~DG) under the
// given name, for later placement with PrintGraphic. A name is 1-8
// characters with no spaces or periods; uploading a second graphic under
// the same name overwrites the first. Returns the rendered height in
// millimeters.
func (l *Label) UploadGraphic(name string, src Source, widthMM float64, opts GraphicOptions) (float64, error) {
	if !graphicNamePattern.MatchString(name) {
		return 0, fmt.Errorf("graphic name %q must be 1-8 characters without spaces or periods: %w",
			name, ErrInvalidParameter)
	}
	g, err := l.encodeGraphic(src, widthMM, opts)
	if err != nil {
		return 0, err
	}
	l.commands = append(l.commands, uploadGraphicCommand{
		name:        name,
		totalBytes:  g.totalBytes,
		bytesPerRow: g.bytesPerRow,
		data:        g.data,
	})
	return g.heightMM, nil
}
