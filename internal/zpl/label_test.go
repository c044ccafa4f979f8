package zpl

import (
	"errors"
	"strings"
	"testing"
)

func aLabel(t *testing.T) *Label {
	t.Helper()
	l, err := NewLabel(100, 80, 12)
	if err != nil {
		t.Fatalf("NewLabel failed: %v", err)
	}
	return l
}

func TestDocumentFraming(t *testing.T) {
	l := aLabel(t)
	doc := l.Document()
	if doc != "^XA^PW960^LL1200^XZ" {
		t.Errorf("empty label document = %q", doc)
	}

	// Document serializes afresh on each call: exactly one terminator.
	again := l.Document()
	if again != doc {
		t.Errorf("second Document() = %q, want %q", again, doc)
	}
}

func TestDocumentTextField(t *testing.T) {
	l := aLabel(t)
	if err := l.Origin(0, 0, FieldJustifyNone); err != nil {
		t.Fatal(err)
	}
	err := l.WriteText("Problem?", TextOptions{
		CharHeight:    10,
		CharWidth:     8,
		LineWidth:     60,
		Justification: JustifyCenter,
	})
	if err != nil {
		t.Fatal(err)
	}
	l.EndOrigin()

	want := `^XA^PW960^LL1200^FO0,0^A0N,120,96^FB720,1,0,C,0^FDProblem?\&^FS^XZ`
	if doc := l.Document(); doc != want {
		t.Errorf("document = %q, want %q", doc, want)
	}
}

func TestDocumentFontFile(t *testing.T) {
	l := aLabel(t)
	err := l.WriteText("hello", TextOptions{
		Font:       "E:ARI000.TTF",
		CharHeight: 5,
		CharWidth:  5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc := l.Document(); !strings.Contains(doc, "^A@N,60,60,E:ARI000.TTF^FDhello") {
		t.Errorf("document = %q", doc)
	}
}

func TestWriteTextValidation(t *testing.T) {
	cases := []struct {
		name string
		opts TextOptions
	}{
		{"bad orientation", TextOptions{Orientation: "X", CharHeight: 1, CharWidth: 1}},
		{"bad justification", TextOptions{Justification: "Q", LineWidth: 10}},
		{"bad font", TextOptions{Font: "abc", CharHeight: 1, CharWidth: 1}},
		{"lowercase font file", TextOptions{Font: "E:font.ttf", CharHeight: 1, CharWidth: 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := aLabel(t)
			if err := l.WriteText("x", c.opts); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestSaveFormatReparentsAfterStartMarker(t *testing.T) {
	l := aLabel(t)
	if err := l.WriteFieldNumber(1, "recipient", TextOptions{CharHeight: 4, CharWidth: 3}); err != nil {
		t.Fatal(err)
	}
	l.SaveFormat("SHIP")

	doc := l.Document()
	if !strings.HasPrefix(doc, "^XA^DFSHIP^FS^PW960") {
		t.Errorf("save format not placed after start marker: %q", doc)
	}
	if strings.Count(doc, "^XZ") != 1 || !strings.HasSuffix(doc, "^XZ") {
		t.Errorf("document not singly terminated: %q", doc)
	}
	if !strings.Contains(doc, `^FN1"recipient"`) {
		t.Errorf("numbered field missing: %q", doc)
	}
}

func TestBalance(t *testing.T) {
	l := aLabel(t)
	if err := l.Origin(10, 10, FieldJustifyNone); err != nil {
		t.Fatal(err)
	}
	if l.Balanced() {
		t.Error("open origin should be unbalanced")
	}

	// An unbalanced label is a caller bug, but the document must still be
	// syntactically terminated.
	if doc := l.Document(); !strings.HasSuffix(doc, "^XZ") {
		t.Errorf("unbalanced document not terminated: %q", doc)
	}

	l.EndOrigin()
	if !l.Balanced() {
		t.Error("matched origin should be balanced")
	}
}

func TestShapes(t *testing.T) {
	l, err := NewLabel(30, 60, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.DrawBox(10, 5, 0.25, ColorBlack, 0); err != nil {
		t.Fatal(err)
	}
	if err := l.DrawEllipse(10, 5, 0.25, ColorWhite); err != nil {
		t.Fatal(err)
	}

	doc := l.Document()
	if !strings.Contains(doc, "^GB80,40,2,B,0") {
		t.Errorf("box fragment missing from %q", doc)
	}
	if !strings.Contains(doc, "^GE80,40,2,W") {
		t.Errorf("ellipse fragment missing from %q", doc)
	}
}

func TestShapeValidation(t *testing.T) {
	l := aLabel(t)
	if err := l.DrawBox(1, 1, 0.1, "G", 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad color: expected ErrInvalidParameter, got %v", err)
	}
	if err := l.DrawBox(1, 1, 0.1, ColorBlack, 9); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad rounding: expected ErrInvalidParameter, got %v", err)
	}
	if err := l.DrawEllipse(1, 1, 0.1, "R"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad color: expected ErrInvalidParameter, got %v", err)
	}
}

func TestSetDarkness(t *testing.T) {
	l := aLabel(t)
	for _, bad := range []int{-1, 31} {
		if err := l.SetDarkness(bad); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("darkness %d: expected ErrInvalidParameter, got %v", bad, err)
		}
	}
	if err := l.SetDarkness(15); err != nil {
		t.Fatal(err)
	}
	if doc := l.Document(); !strings.Contains(doc, "~SD15") {
		t.Errorf("darkness fragment missing from %q", doc)
	}
}

func TestInternationalFont(t *testing.T) {
	l := aLabel(t)
	if err := l.InternationalFont(28, [][2]int{{65, 97}, {66, 98}}); err != nil {
		t.Fatal(err)
	}
	if doc := l.Document(); !strings.Contains(doc, "^CI28,65,97,66,98") {
		t.Errorf("encoding fragment missing from %q", doc)
	}

	if err := l.InternationalFont(37, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("character set 37: expected ErrInvalidParameter, got %v", err)
	}
	if err := l.InternationalFont(28, [][2]int{{65, 256}}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("remap 256: expected ErrInvalidParameter, got %v", err)
	}
}

func TestMiscellaneousCommands(t *testing.T) {
	l, err := NewLabel(30, 60, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.LabelHome(1, 2, FieldJustifyRight); err != nil {
		t.Fatal(err)
	}
	if err := l.SetDefaultFont(5, 4, "0"); err != nil {
		t.Fatal(err)
	}
	if err := l.FieldOrientation(OrientationRotated, FieldJustifyAuto); err != nil {
		t.Fatal(err)
	}
	l.BarcodeFieldDefault(0.25, 3, 10)
	l.ReversePrint(true)
	l.RunFormat("SHIP")
	l.Raw("^JUS")

	doc := l.Document()
	for _, fragment := range []string{
		"^LH8,16,1", "^CF0,40,32", "^FWR,2", "^BY2,3,80", "^LRY", "^XFSHIP^FS", "^JUS",
	} {
		if !strings.Contains(doc, fragment) {
			t.Errorf("fragment %q missing from %q", fragment, doc)
		}
	}
}
