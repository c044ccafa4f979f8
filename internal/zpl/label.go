// Package zpl builds ZPL II label documents and encodes their graphic and
// barcode payloads. A Label accumulates typed command nodes; the wire text
// is produced only by Document, so the node sequence stays inspectable.
package zpl

import (
	"fmt"
	"regexp"
)

// Orientation of a field's content.
type Orientation string

const (
	OrientationNormal   Orientation = "N"
	OrientationRotated  Orientation = "R" // rotated 90 degrees clockwise
	OrientationInverted Orientation = "I"
	OrientationBottomUp Orientation = "B"
)

func (o Orientation) valid() bool {
	switch o {
	case OrientationNormal, OrientationRotated, OrientationInverted, OrientationBottomUp:
		return true
	}
	return false
}

// BlockJustification aligns text within a ^FB field block.
type BlockJustification string

const (
	JustifyLeft      BlockJustification = "L"
	JustifyRight     BlockJustification = "R"
	JustifyCenter    BlockJustification = "C"
	JustifyJustified BlockJustification = "J"
)

func (j BlockJustification) valid() bool {
	switch j {
	case JustifyLeft, JustifyRight, JustifyCenter, JustifyJustified:
		return true
	}
	return false
}

// FieldJustification is the optional third parameter of ^LH/^FO/^FW.
type FieldJustification string

const (
	FieldJustifyNone  FieldJustification = ""
	FieldJustifyLeft  FieldJustification = "0"
	FieldJustifyRight FieldJustification = "1"
	FieldJustifyAuto  FieldJustification = "2"
)

func (j FieldJustification) valid() bool {
	switch j {
	case FieldJustifyNone, FieldJustifyLeft, FieldJustifyRight, FieldJustifyAuto:
		return true
	}
	return false
}

// Color of drawn shapes.
type Color string

const (
	ColorBlack Color = "B"
	ColorWhite Color = "W"
)

func (c Color) valid() bool { return c == ColorBlack || c == ColorWhite }

var (
	builtinFontPattern = regexp.MustCompile(`^[A-Z0-9]$`)
	fontFilePattern    = regexp.MustCompile(`^[REBA]?:[A-Z0-9_]+\.(FNT|TTF|TTE)$`)
	fieldNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	graphicNamePattern = regexp.MustCompile(`^[^ .]{1,8}$`)
)

// Label accumulates the commands of one ZPL document. Height and width are
// millimeters; every dimension passed to a builder method is converted to
// dots with the label's Resolution.
type Label struct {
	Height     float64
	Width      float64
	Resolution Resolution

	commands   []command
	formatName string // set by SaveFormat, serialized right after ^XA
}

// NewLabel creates an empty label of the given size in millimeters.
func NewLabel(height, width float64, dpmm Resolution) (*Label, error) {
	if height <= 0 || width <= 0 || dpmm <= 0 {
		return nil, fmt.Errorf("label dimensions and resolution must be positive: %w", ErrInvalidParameter)
	}
	return &Label{Height: height, Width: width, Resolution: dpmm}, nil
}

// LabelHome sets the label home position (^LH) in millimeters.
func (l *Label) LabelHome(x, y float64, justification FieldJustification) error {
	if !justification.valid() {
		return fmt.Errorf("justification %q: %w", justification, ErrInvalidParameter)
	}
	l.commands = append(l.commands, labelHomeCommand{
		x:             l.Resolution.Dots(x),
		y:             l.Resolution.Dots(y),
		justification: justification,
	})
	return nil
}

// Origin opens a new field (^FO) at x and y millimeters. Every opened field
// must be closed with EndOrigin before the document is finalized.
func (l *Label) Origin(x, y float64, justification FieldJustification) error {
	if !justification.valid() {
		return fmt.Errorf("justification %q: %w", justification, ErrInvalidParameter)
	}
	l.commands = append(l.commands, originCommand{
		x:             l.Resolution.Dots(x),
		y:             l.Resolution.Dots(y),
		justification: justification,
	})
	return nil
}

// EndOrigin closes the field opened by the matching Origin call (^FS).
func (l *Label) EndOrigin() {
	l.commands = append(l.commands, endOriginCommand{})
}

// SetDarkness sets the print darkness (~SD), 0 for none up to 30 for full.
func (l *Label) SetDarkness(value int) error {
	if value < 0 || value > 30 {
		return fmt.Errorf("darkness %d outside 0-30: %w", value, ErrInvalidParameter)
	}
	l.commands = append(l.commands, darknessCommand(value))
	return nil
}

// Raw appends caller-supplied ZPL verbatim.
func (l *Label) Raw(commands string) {
	l.commands = append(l.commands, rawCommand(commands))
}

// TextBlock bounds the next text command by a ^FB block of the given width
// in millimeters. WriteText emits its own block, so this is only for text
// written through Raw or numbered fields.
func (l *Label) TextBlock(width float64, justification BlockJustification, lines int) error {
	if !justification.valid() {
		return fmt.Errorf("justification %q: %w", justification, ErrInvalidParameter)
	}
	l.commands = append(l.commands, textBlockCommand{
		width:         l.Resolution.Dots(width),
		lines:         lines,
		justification: justification,
	})
	return nil
}

// TextOptions carries the optional parameters of WriteText and
// WriteFieldNumber. The zero value writes the text with the printer's
// current font and no field block.
type TextOptions struct {
	// Font is a single built-in font character ("0"-"9", "A"-"Z") or a
	// stored font file such as "E:ARI000.TTF". Defaults to "0" when
	// CharHeight and CharWidth are set.
	Font        string
	Orientation Orientation // defaults to OrientationNormal
	// CharHeight and CharWidth select the glyph size in millimeters; a ^A
	// font command is emitted only when both are positive.
	CharHeight float64
	CharWidth  float64
	// LineWidth wraps the text in a ^FB block of this width in millimeters.
	LineWidth     float64
	MaxLines      int // defaults to 1
	LineSpaces    int // additional dots between lines
	Justification BlockJustification // defaults to JustifyLeft
	HangingIndent int
	// QR prefixes the field data for a preceding QR barcode command.
	QR bool
}

func (o *TextOptions) normalize() error {
	if o.Font == "" {
		o.Font = "0"
	}
	if o.Orientation == "" {
		o.Orientation = OrientationNormal
	}
	if o.MaxLines == 0 {
		o.MaxLines = 1
	}
	if o.Justification == "" {
		o.Justification = JustifyLeft
	}
	if !o.Orientation.valid() {
		return fmt.Errorf("orientation %q: %w", o.Orientation, ErrInvalidParameter)
	}
	if !o.Justification.valid() {
		return fmt.Errorf("justification %q: %w", o.Justification, ErrInvalidParameter)
	}
	if !builtinFontPattern.MatchString(o.Font) && !fontFilePattern.MatchString(o.Font) {
		return fmt.Errorf("font %q: %w", o.Font, ErrInvalidParameter)
	}
	return nil
}

func (l *Label) textCommandFor(text string, opts TextOptions) (textCommand, error) {
	if err := opts.normalize(); err != nil {
		return textCommand{}, err
	}
	return textCommand{
		text:          text,
		font:          opts.Font,
		fontFile:      fontFilePattern.MatchString(opts.Font),
		orientation:   opts.Orientation,
		height:        l.Resolution.Dots(opts.CharHeight),
		width:         l.Resolution.Dots(opts.CharWidth),
		blockWidth:    l.Resolution.Dots(opts.LineWidth),
		maxLines:      opts.MaxLines,
		lineSpaces:    opts.LineSpaces,
		indent:        opts.HangingIndent,
		justification: opts.Justification,
		qr:            opts.QR,
	}, nil
}

// WriteText writes a text field (^A/^FB/^FD) into the open field block.
func (l *Label) WriteText(text string, opts TextOptions) error {
	cmd, err := l.textCommandFor(text, opts)
	if err != nil {
		return err
	}
	l.commands = append(l.commands, cmd)
	return nil
}

// WriteFieldNumber declares a numbered template field (^FN) that a stored
// format fills in later. The optional name may only contain alphanumeric
// characters and spaces.
func (l *Label) WriteFieldNumber(number int, name string, opts TextOptions) error {
	if name != "" && !fieldNamePattern.MatchString(name) {
		return fmt.Errorf("field name %q: %w", name, ErrInvalidParameter)
	}
	setup, err := l.textCommandFor("", opts)
	if err != nil {
		return err
	}
	l.commands = append(l.commands, fieldNumberCommand{setup: setup, number: number, name: name})
	return nil
}

// SetDefaultFont sets the font (^CF) used by following text commands that
// don't pick their own. Height and width are millimeters.
func (l *Label) SetDefaultFont(height, width float64, font string) error {
	if !builtinFontPattern.MatchString(font) {
		return fmt.Errorf("font %q: %w", font, ErrInvalidParameter)
	}
	l.commands = append(l.commands, defaultFontCommand{
		font:   font,
		height: l.Resolution.Dots(height),
		width:  l.Resolution.Dots(width),
	})
	return nil
}

// InternationalFont selects the international character set (^CI).
// characterSet 28 is UTF-8. Remaps are (source, destination) code pairs and
// may only work on certain character sets.
func (l *Label) InternationalFont(characterSet int, remaps [][2]int) error {
	if characterSet < 0 || characterSet > 36 {
		return fmt.Errorf("character set %d outside 0-36: %w", characterSet, ErrInvalidParameter)
	}
	for _, r := range remaps {
		if r[0] < 0 || r[0] > 255 || r[1] < 0 || r[1] > 255 {
			return fmt.Errorf("remap %d->%d outside 0-255: %w", r[0], r[1], ErrInvalidParameter)
		}
	}
	l.commands = append(l.commands, encodingCommand{characterSet: characterSet, remaps: remaps})
	return nil
}

// WriteBarcode emits the barcode's parameter prefix and content fragments
// into the open field block.
func (l *Label) WriteBarcode(b Barcode) error {
	params, content, err := b.fragments()
	if err != nil {
		return err
	}
	l.commands = append(l.commands, barcodeCommand{params: params, content: content})
	return nil
}

// BarcodeFieldDefault changes the default module width (mm), wide-to-narrow
// ratio and bar height (mm) for following barcodes (^BY).
func (l *Label) BarcodeFieldDefault(moduleWidth, ratio, height float64) {
	l.commands = append(l.commands, barcodeDefaultCommand{
		moduleWidth: l.Resolution.Dots(moduleWidth),
		ratio:       ratio,
		height:      l.Resolution.Dots(height),
	})
}

// FieldOrientation sets the default orientation (^FW) for following fields.
func (l *Label) FieldOrientation(orientation Orientation, justification FieldJustification) error {
	if !orientation.valid() {
		return fmt.Errorf("orientation %q: %w", orientation, ErrInvalidParameter)
	}
	if !justification.valid() {
		return fmt.Errorf("justification %q: %w", justification, ErrInvalidParameter)
	}
	l.commands = append(l.commands, fieldOrientationCommand{
		orientation:   orientation,
		justification: justification,
	})
	return nil
}

// DrawBox draws a rectangle (^GB). Dimensions and line thickness are
// millimeters; rounding rounds the corners, 0 (none) to 8 (heaviest).
func (l *Label) DrawBox(width, height, thickness float64, color Color, rounding int) error {
	if !color.valid() {
		return fmt.Errorf("color %q: %w", color, ErrInvalidParameter)
	}
	if rounding < 0 || rounding > 8 {
		return fmt.Errorf("rounding %d outside 0-8: %w", rounding, ErrInvalidParameter)
	}
	l.commands = append(l.commands, boxCommand{
		width:     l.Resolution.Dots(width),
		height:    l.Resolution.Dots(height),
		thickness: l.Resolution.Dots(thickness),
		color:     color,
		rounding:  rounding,
	})
	return nil
}

// DrawEllipse draws an ellipse (^GE). Dimensions and line thickness are
// millimeters.
func (l *Label) DrawEllipse(width, height, thickness float64, color Color) error {
	if !color.valid() {
		return fmt.Errorf("color %q: %w", color, ErrInvalidParameter)
	}
	l.commands = append(l.commands, ellipseCommand{
		width:     l.Resolution.Dots(width),
		height:    l.Resolution.Dots(height),
		thickness: l.Resolution.Dots(thickness),
		color:     color,
	})
	return nil
}

// ReversePrint lets following fields print white over black (^LR).
func (l *Label) ReversePrint(active bool) {
	l.commands = append(l.commands, reversePrintCommand(active))
}

// PrintGraphic recalls a graphic previously stored with UploadGraphic (^XG).
func (l *Label) PrintGraphic(name string, scaleX, scaleY int) error {
	if !graphicNamePattern.MatchString(name) {
		return fmt.Errorf("graphic name %q: %w", name, ErrInvalidParameter)
	}
	l.commands = append(l.commands, printGraphicCommand{name: name, scaleX: scaleX, scaleY: scaleY})
	return nil
}

// RunFormat recalls a format stored with SaveFormat (^XF).
func (l *Label) RunFormat(name string) {
	l.commands = append(l.commands, runFormatCommand(name))
}

// SaveFormat marks the document as a stored format (^DF). The command is
// serialized immediately after the start-of-format marker, not at the
// position of this call.
func (l *Label) SaveFormat(name string) {
	l.formatName = name
}

// Balanced reports whether every Origin call has a matching EndOrigin.
// Document still terminates an unbalanced label; callers should treat an
// unbalanced sequence as a construction bug.
func (l *Label) Balanced() bool {
	open := 0
	for _, c := range l.commands {
		switch c.(type) {
		case originCommand:
			open++
		case endOriginCommand:
			open--
		}
	}
	return open == 0
}

// Document serializes the accumulated commands into one ZPL document,
// starting with ^XA and the label dimensions and ending with exactly one
// ^XZ. It may be called repeatedly; each call serializes afresh.
func (l *Label) Document() string {
	var b []byte
	b = append(b, "^XA"...)
	if l.formatName != "" {
		b = append(b, fmt.Sprintf("^DF%s^FS", l.formatName)...)
	}
	b = append(b, fmt.Sprintf("^PW%d", l.Resolution.Dots(l.Width))...)
	b = append(b, fmt.Sprintf("^LL%d", l.Resolution.Dots(l.Height))...)
	for _, c := range l.commands {
		b = append(b, c.fragment()...)
	}
	b = append(b, "^XZ"...)
	return string(b)
}
