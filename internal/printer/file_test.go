package printer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.zpl")

	c, err := OpenFile(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send("^XA^XZ"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Query("~HI"); !errors.Is(err, ErrQueryUnsupported) {
		t.Errorf("expected ErrQueryUnsupported, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening with appendTo keeps the earlier document.
	c, err = OpenFile(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send("^XA^FDx^FS^XZ"); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "^XA^XZ^XA^FDx^FS^XZ" {
		t.Errorf("file contents = %q", data)
	}
}

func TestFileConnectionTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.zpl")
	for range 2 {
		c, err := OpenFile(path, false)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Send("^XA^XZ"); err != nil {
			t.Fatal(err)
		}
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "^XA^XZ" {
		t.Errorf("file contents = %q", data)
	}
}

func TestDatagramConnection(t *testing.T) {
	var c DatagramConnection
	if err := c.Send("^XA^XZ"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Send: expected ErrNotImplemented, got %v", err)
	}
	if _, err := c.Query("~HI"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Query: expected ErrNotImplemented, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
