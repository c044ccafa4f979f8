// This file implements the typed command nodes a label is built from. The
// builder appends nodes instead of raw text so structural checks (origin
// balance, save-format placement) can inspect the sequence; nodes are only
// serialized to wire syntax when Label.Document is called.
package zpl

import (
	"fmt"
	"strings"
)

type command interface {
	// fragment returns the ZPL wire text for this node, with all numeric
	// parameters already in dot units.
	fragment() string
}

// rawCommand carries caller-supplied ZPL verbatim.
type rawCommand string

func (c rawCommand) fragment() string { return string(c) }

type labelHomeCommand struct {
	x, y          int
	justification FieldJustification
}

func (c labelHomeCommand) fragment() string {
	s := fmt.Sprintf("^LH%d,%d", c.x, c.y)
	if c.justification != "" {
		s += "," + string(c.justification)
	}
	return s
}

type originCommand struct {
	x, y          int
	justification FieldJustification
}

func (c originCommand) fragment() string {
	s := fmt.Sprintf("^FO%d,%d", c.x, c.y)
	if c.justification != "" {
		s += "," + string(c.justification)
	}
	return s
}

type endOriginCommand struct{}

func (endOriginCommand) fragment() string { return "^FS" }

type darknessCommand int

func (c darknessCommand) fragment() string { return fmt.Sprintf("~SD%d", int(c)) }

type textBlockCommand struct {
	width         int
	lines         int
	justification BlockJustification
}

func (c textBlockCommand) fragment() string {
	return fmt.Sprintf("^FB%d,%d,%d,%s,%d", c.width, c.lines, 0, c.justification, 0)
}

type textCommand struct {
	text          string
	font          string
	fontFile      bool
	orientation   Orientation
	height, width int // dots; a font command is emitted only when both are set
	blockWidth    int // dots; a field block is emitted only when set
	maxLines      int
	lineSpaces    int
	indent        int
	justification BlockJustification
	qr            bool
}

// setupFragment builds the ^A font and ^FB block prefix shared by text
// fields and numbered template fields.
func (c textCommand) setupFragment() string {
	var b strings.Builder
	if c.height > 0 && c.width > 0 {
		if c.fontFile {
			fmt.Fprintf(&b, "^A@%s,%d,%d,%s", c.orientation, c.height, c.width, c.font)
		} else {
			fmt.Fprintf(&b, "^A%s%s,%d,%d", c.font, c.orientation, c.height, c.width)
		}
	}
	if c.blockWidth > 0 {
		fmt.Fprintf(&b, "^FB%d,%d,%d,%s,%d",
			c.blockWidth, c.maxLines, c.lineSpaces, c.justification, c.indent)
	}
	return b.String()
}

func (c textCommand) fragment() string {
	var b strings.Builder
	b.WriteString(c.setupFragment())
	if c.qr {
		fmt.Fprintf(&b, "^FDQA,%s", c.text)
	} else {
		fmt.Fprintf(&b, "^FD%s", c.text)
	}
	if c.justification == JustifyCenter {
		b.WriteString(`\&`)
	}
	return b.String()
}

type defaultFontCommand struct {
	font          string
	height, width int
}

func (c defaultFontCommand) fragment() string {
	return fmt.Sprintf("^CF%s,%d,%d", c.font, c.height, c.width)
}

type encodingCommand struct {
	characterSet int
	remaps       [][2]int
}

func (c encodingCommand) fragment() string {
	var b strings.Builder
	fmt.Fprintf(&b, "^CI%d", c.characterSet)
	for _, r := range c.remaps {
		fmt.Fprintf(&b, ",%d,%d", r[0], r[1])
	}
	return b.String()
}

// inlineGraphicCommand places an encoded raster directly in the open field.
type inlineGraphicCommand struct {
	payloadLength int // length of the uncompressed hex payload
	totalBytes    int
	bytesPerRow   int
	data          string
}

func (c inlineGraphicCommand) fragment() string {
	return fmt.Sprintf("^GFA,%d,%d,%d,%s", c.payloadLength, c.totalBytes, c.bytesPerRow, c.data)
}

// uploadGraphicCommand persists an encoded raster under a name for later
// recall with ^XG.
type uploadGraphicCommand struct {
	name        string
	totalBytes  int
	bytesPerRow int
	data        string
}

func (c uploadGraphicCommand) fragment() string {
	return fmt.Sprintf("~DG%s.GRF,%d,%d,%s", c.name, c.totalBytes, c.bytesPerRow, c.data)
}

type printGraphicCommand struct {
	name           string
	scaleX, scaleY int
}

func (c printGraphicCommand) fragment() string {
	return fmt.Sprintf("^XG%s,%d,%d", c.name, c.scaleX, c.scaleY)
}

type boxCommand struct {
	width, height int
	thickness     int
	color         Color
	rounding      int
}

func (c boxCommand) fragment() string {
	return fmt.Sprintf("^GB%d,%d,%d,%s,%d", c.width, c.height, c.thickness, c.color, c.rounding)
}

type ellipseCommand struct {
	width, height int
	thickness     int
	color         Color
}

func (c ellipseCommand) fragment() string {
	return fmt.Sprintf("^GE%d,%d,%d,%s", c.width, c.height, c.thickness, c.color)
}

type reversePrintCommand bool

func (c reversePrintCommand) fragment() string {
	if c {
		return "^LRY"
	}
	return "^LRN"
}

type fieldOrientationCommand struct {
	orientation   Orientation
	justification FieldJustification
}

func (c fieldOrientationCommand) fragment() string {
	s := "^FW" + string(c.orientation)
	if c.justification != "" {
		s += "," + string(c.justification)
	}
	return s
}

type barcodeDefaultCommand struct {
	moduleWidth int
	ratio       float64
	height      int
}

func (c barcodeDefaultCommand) fragment() string {
	return fmt.Sprintf("^BY%d,%g,%d", c.moduleWidth, c.ratio, c.height)
}

// barcodeCommand holds the two fragments produced by the barcode encoder:
// the symbology parameter prefix and the ^FD content.
type barcodeCommand struct {
	params  string
	content string
}

func (c barcodeCommand) fragment() string { return c.params + c.content }

type fieldNumberCommand struct {
	setup  textCommand // reused for the optional ^A / ^FB prefix
	number int
	name   string
}

func (c fieldNumberCommand) fragment() string {
	var b strings.Builder
	b.WriteString(c.setup.setupFragment())
	fmt.Fprintf(&b, "^FN%d", c.number)
	if c.name != "" {
		fmt.Fprintf(&b, "%q", c.name)
	}
	return b.String()
}

type runFormatCommand string

func (c runFormatCommand) fragment() string { return fmt.Sprintf("^XF%s^FS", string(c)) }
