package zpl

import "fmt"

// Symbology identifies one of the supported ^B barcode commands by its ZPL
// command letter.
type Symbology byte

const (
	Interleaved2of5 Symbology = '2'
	Code39          Symbology = '3'
	QRCode          Symbology = 'Q'
	UPCA            Symbology = 'U'
	Code128         Symbology = 'C'
	EAN13           Symbology = 'E'
	DataMatrix      Symbology = 'X'
)

// Code128Mode selects the ^BC mode parameter.
type Code128Mode byte

const (
	Code128NoMode    Code128Mode = 'N'
	Code128UCCCase   Code128Mode = 'U'
	Code128Automatic Code128Mode = 'A'
	Code128UCCEAN    Code128Mode = 'D'
)

// ErrorCorrection is the QR code reliability level, ordered from most
// reliable and least dense (H) to least reliable and most dense (L).
type ErrorCorrection byte

const (
	ErrorCorrectionHigh     ErrorCorrection = 'H'
	ErrorCorrectionQuality  ErrorCorrection = 'Q'
	ErrorCorrectionStandard ErrorCorrection = 'M'
	ErrorCorrectionLow      ErrorCorrection = 'L'
)

// DefaultBarcodeHeight is used when a barcode is built with no height set.
// It does not apply to QR codes, whose size comes from the magnification.
const DefaultBarcodeHeight = 70

// Barcode describes one barcode field. Construct with NewBarcode to get the
// usual defaults, then override the fields the symbology needs.
type Barcode struct {
	Symbology Symbology
	// Data is the literal barcode payload written to the content fragment.
	Data        string
	Height      int // bar height in dots; ignored for QR codes
	Orientation Orientation
	CheckDigit  bool
	// Interpretation prints the human-readable line under the bars;
	// InterpretationAbove moves it above them.
	Interpretation      bool
	InterpretationAbove bool

	// QR code parameters.
	Magnification   int // 1-10
	ErrorCorrection ErrorCorrection
	Mask            int // 1-7

	Mode Code128Mode
}

// NewBarcode returns a Barcode with the defaults shared by all symbologies:
// normal orientation, interpretation line on, height of
// DefaultBarcodeHeight dots, QR magnification 1 / correction Q / mask 7,
// and no Code 128 mode.
func NewBarcode(symbology Symbology, data string) Barcode {
	return Barcode{
		Symbology:       symbology,
		Data:            data,
		Height:          DefaultBarcodeHeight,
		Orientation:     OrientationNormal,
		Interpretation:  true,
		Magnification:   1,
		ErrorCorrection: ErrorCorrectionQuality,
		Mask:            7,
		Mode:            Code128NoMode,
	}
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// fragments builds the symbology parameter prefix and the ^FD content
// fragment. QR codes prefix their content with the error correction token;
// every other symbology writes the payload verbatim.
func (b Barcode) fragments() (params, content string, err error) {
	if !b.Orientation.valid() {
		return "", "", fmt.Errorf("barcode orientation %q: %w", b.Orientation, ErrInvalidParameter)
	}
	if b.Height == 0 && b.Symbology != QRCode {
		b.Height = DefaultBarcodeHeight
	}

	switch b.Symbology {
	case Interleaved2of5, UPCA:
		params = fmt.Sprintf("^B%c%s,%d,%s,%s,%s", b.Symbology, b.Orientation, b.Height,
			yn(b.Interpretation), yn(b.InterpretationAbove), yn(b.CheckDigit))

	case Code39:
		params = fmt.Sprintf("^B%c%s,%s,%d,%s,%s", b.Symbology, b.Orientation, yn(b.CheckDigit),
			b.Height, yn(b.Interpretation), yn(b.InterpretationAbove))

	case Code128:
		switch b.Mode {
		case Code128NoMode, Code128UCCCase, Code128Automatic, Code128UCCEAN:
		default:
			return "", "", fmt.Errorf("code 128 mode %q: %w", b.Mode, ErrInvalidParameter)
		}
		params = fmt.Sprintf("^B%c%s,%d,%s,%s,%s,%c", b.Symbology, b.Orientation, b.Height,
			yn(b.Interpretation), yn(b.InterpretationAbove), yn(b.CheckDigit), b.Mode)

	case EAN13:
		params = fmt.Sprintf("^B%c%s,%d,%s,%s", b.Symbology, b.Orientation, b.Height,
			yn(b.Interpretation), yn(b.InterpretationAbove))

	case DataMatrix:
		params = fmt.Sprintf("^B%c%s,%d,200", b.Symbology, b.Orientation, b.Height)

	case QRCode:
		if b.Orientation != OrientationNormal {
			return "", "", fmt.Errorf("QR code orientation must be normal: %w", ErrInvalidParameter)
		}
		if b.Magnification < 1 || b.Magnification > 10 {
			return "", "", fmt.Errorf("QR code magnification %d outside 1-10: %w",
				b.Magnification, ErrInvalidParameter)
		}
		switch b.ErrorCorrection {
		case ErrorCorrectionHigh, ErrorCorrectionQuality, ErrorCorrectionStandard, ErrorCorrectionLow:
		default:
			return "", "", fmt.Errorf("QR code error correction %q: %w",
				b.ErrorCorrection, ErrInvalidParameter)
		}
		if b.Mask < 1 || b.Mask > 7 {
			return "", "", fmt.Errorf("QR code mask %d outside 1-7: %w", b.Mask, ErrInvalidParameter)
		}
		// Model 2 is the enhanced model recommended by the ZPL II guide.
		params = fmt.Sprintf("^B%c%s,2,%d,%c,%d", b.Symbology, b.Orientation,
			b.Magnification, b.ErrorCorrection, b.Mask)
		content = fmt.Sprintf("^FD%cA,%s", b.ErrorCorrection, b.Data)
		return params, content, nil

	default:
		return "", "", fmt.Errorf("barcode symbology %q: %w", b.Symbology, ErrInvalidParameter)
	}

	return params, "^FD" + b.Data, nil
}
