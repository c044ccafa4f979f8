// Package config loads YAML label definitions and printer endpoints and
// turns a definition into a built label document.
package config

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"zplpress/internal/bitmap"
	"zplpress/internal/printer"
	"zplpress/internal/zpl"
)

// LabelSpec is the YAML description of one label. All coordinates and
// dimensions are millimeters.
type LabelSpec struct {
	Width    float64     `yaml:"width"`
	Height   float64     `yaml:"height"`
	DPMM     float64     `yaml:"dpmm"`
	Darkness *int        `yaml:"darkness,omitempty"`
	Format   string      `yaml:"format,omitempty"` // store as ^DF format under this name
	Fields   []FieldSpec `yaml:"fields"`
}

// FieldSpec is one positioned field. Exactly one of the content members
// must be set.
type FieldSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	Text    *TextSpec    `yaml:"text,omitempty"`
	Barcode *BarcodeSpec `yaml:"barcode,omitempty"`
	Graphic *GraphicSpec `yaml:"graphic,omitempty"`
	Box     *BoxSpec     `yaml:"box,omitempty"`
	Ellipse *EllipseSpec `yaml:"ellipse,omitempty"`
}

type TextSpec struct {
	Value         string  `yaml:"value"`
	Font          string  `yaml:"font,omitempty"`
	Orientation   string  `yaml:"orientation,omitempty"`
	CharHeight    float64 `yaml:"char_height,omitempty"`
	CharWidth     float64 `yaml:"char_width,omitempty"`
	LineWidth     float64 `yaml:"line_width,omitempty"`
	MaxLines      int     `yaml:"max_lines,omitempty"`
	Justification string  `yaml:"justification,omitempty"`
}

type BarcodeSpec struct {
	Symbology       string `yaml:"symbology"`
	Value           string `yaml:"value"`
	Height          int    `yaml:"height,omitempty"` // dots
	Orientation     string `yaml:"orientation,omitempty"`
	CheckDigit      bool   `yaml:"check_digit,omitempty"`
	NoText          bool   `yaml:"no_text,omitempty"`
	Magnification   int    `yaml:"magnification,omitempty"`
	ErrorCorrection string `yaml:"error_correction,omitempty"`
	Mask            int    `yaml:"mask,omitempty"`
	Mode            string `yaml:"mode,omitempty"`
}

type GraphicSpec struct {
	File      string  `yaml:"file"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height,omitempty"` // 0 keeps the aspect ratio
	RunLength bool    `yaml:"run_length,omitempty"`
	// Upload stores the graphic under this name instead of embedding it.
	Upload string  `yaml:"upload,omitempty"`
	Gamma  float64 `yaml:"gamma,omitempty"`
}

type BoxSpec struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Thickness float64 `yaml:"thickness,omitempty"`
	White     bool    `yaml:"white,omitempty"`
	Rounding  int     `yaml:"rounding,omitempty"`
}

type EllipseSpec struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Thickness float64 `yaml:"thickness,omitempty"`
	White     bool    `yaml:"white,omitempty"`
}

var symbologies = map[string]zpl.Symbology{
	"interleaved2of5": zpl.Interleaved2of5,
	"code39":          zpl.Code39,
	"qrcode":          zpl.QRCode,
	"upca":            zpl.UPCA,
	"code128":         zpl.Code128,
	"ean13":           zpl.EAN13,
	"datamatrix":      zpl.DataMatrix,
}

// LoadLabel reads and parses a YAML label definition.
func LoadLabel(path string) (*LabelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read label definition: %w", err)
	}
	var spec LabelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("couldn't parse label definition: %w", err)
	}
	if spec.DPMM == 0 {
		spec.DPMM = 12 // 300dpi
	}
	return &spec, nil
}

// Build turns the definition into a label document.
func (s *LabelSpec) Build() (*zpl.Label, error) {
	label, err := zpl.NewLabel(s.Height, s.Width, zpl.Resolution(s.DPMM))
	if err != nil {
		return nil, err
	}
	if s.Format != "" {
		label.SaveFormat(s.Format)
	}
	if s.Darkness != nil {
		if err := label.SetDarkness(*s.Darkness); err != nil {
			return nil, err
		}
	}
	for i, f := range s.Fields {
		if err := f.build(label); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return label, nil
}

func (f *FieldSpec) build(label *zpl.Label) error {
	if err := label.Origin(f.X, f.Y, zpl.FieldJustifyNone); err != nil {
		return err
	}
	defer label.EndOrigin()

	switch {
	case f.Text != nil:
		return label.WriteText(f.Text.Value, zpl.TextOptions{
			Font:          f.Text.Font,
			Orientation:   zpl.Orientation(f.Text.Orientation),
			CharHeight:    f.Text.CharHeight,
			CharWidth:     f.Text.CharWidth,
			LineWidth:     f.Text.LineWidth,
			MaxLines:      f.Text.MaxLines,
			Justification: zpl.BlockJustification(f.Text.Justification),
		})

	case f.Barcode != nil:
		return f.Barcode.build(label)

	case f.Graphic != nil:
		return f.Graphic.build(label)

	case f.Box != nil:
		return label.DrawBox(f.Box.Width, f.Box.Height, boxThickness(f.Box.Thickness),
			shapeColor(f.Box.White), f.Box.Rounding)

	case f.Ellipse != nil:
		return label.DrawEllipse(f.Ellipse.Width, f.Ellipse.Height,
			boxThickness(f.Ellipse.Thickness), shapeColor(f.Ellipse.White))
	}
	return fmt.Errorf("field at (%g, %g) has no content", f.X, f.Y)
}

func (b *BarcodeSpec) build(label *zpl.Label) error {
	symbology, ok := symbologies[b.Symbology]
	if !ok {
		return fmt.Errorf("unknown barcode symbology %q", b.Symbology)
	}
	code := zpl.NewBarcode(symbology, b.Value)
	if b.Height != 0 {
		code.Height = b.Height
	}
	if b.Orientation != "" {
		code.Orientation = zpl.Orientation(b.Orientation)
	}
	code.CheckDigit = b.CheckDigit
	code.Interpretation = !b.NoText
	if b.Magnification != 0 {
		code.Magnification = b.Magnification
	}
	if b.ErrorCorrection != "" {
		code.ErrorCorrection = zpl.ErrorCorrection(b.ErrorCorrection[0])
	}
	if b.Mask != 0 {
		code.Mask = b.Mask
	}
	if b.Mode != "" {
		code.Mode = zpl.Code128Mode(b.Mode[0])
	}
	return label.WriteBarcode(code)
}

func (g *GraphicSpec) build(label *zpl.Label) error {
	file, err := os.Open(g.File)
	if err != nil {
		return fmt.Errorf("couldn't open graphic: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("couldn't decode graphic %s: %w", g.File, err)
	}
	src := bitmap.NewImageSource(img)
	if g.Gamma != 0 {
		src.Gamma = g.Gamma
	}

	opts := zpl.GraphicOptions{HeightMM: g.Height, RunLength: g.RunLength}
	if g.Upload != "" {
		if _, err := label.UploadGraphic(g.Upload, src, g.Width, opts); err != nil {
			return err
		}
		return label.PrintGraphic(g.Upload, 1, 1)
	}
	_, err = label.WriteGraphic(src, g.Width, opts)
	return err
}

func shapeColor(white bool) zpl.Color {
	if white {
		return zpl.ColorWhite
	}
	return zpl.ColorBlack
}

func boxThickness(t float64) float64 {
	if t == 0 {
		return 0.1 // one dot on a 300dpi head, close to the printer default
	}
	return t
}

// PrinterSpec is the YAML description of a printer endpoint. Exactly one
// member selects the transport.
type PrinterSpec struct {
	TCP       string `yaml:"tcp,omitempty"`
	Bluetooth string `yaml:"bluetooth,omitempty"`
	File      string `yaml:"file,omitempty"`
	Serial    struct {
		Port string `yaml:"port"`
		Baud int    `yaml:"baud,omitempty"`
	} `yaml:"serial,omitempty"`
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// LoadPrinter reads and parses a YAML printer definition.
func LoadPrinter(path string) (*PrinterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read printer definition: %w", err)
	}
	var spec PrinterSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("couldn't parse printer definition: %w", err)
	}
	return &spec, nil
}

// Connect opens the transport the spec selects.
func (p *PrinterSpec) Connect() (printer.Connection, error) {
	timeout := 5 * time.Second
	if p.TimeoutSeconds > 0 {
		timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}

	switch {
	case p.TCP != "":
		return printer.DialTCP(p.TCP, timeout)
	case p.Bluetooth != "":
		return printer.DialBluetooth(p.Bluetooth, timeout)
	case p.File != "":
		return printer.OpenFile(p.File, false)
	case p.Serial.Port != "":
		baud := p.Serial.Baud
		if baud == 0 {
			baud = 9600
		}
		return printer.OpenSerial(p.Serial.Port, baud, timeout)
	}
	return nil, fmt.Errorf("printer definition selects no transport")
}
