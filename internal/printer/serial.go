package printer

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"go.bug.st/serial"
)

// SerialConnection drives a printer over an RS-232 port, 8N1.
type SerialConnection struct {
	port    serial.Port
	name    string
	timeout time.Duration
}

// OpenSerial opens the serial port at the given baud rate. The timeout
// bounds each read while waiting for a telegram.
func OpenSerial(portName string, baudRate int, timeout time.Duration) (*SerialConnection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("couldn't open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("couldn't set read timeout on %s: %w", portName, err)
	}
	return &SerialConnection{port: port, name: portName, timeout: timeout}, nil
}

func (c *SerialConnection) Send(document string) error {
	if _, err := c.port.Write([]byte(document)); err != nil {
		return fmt.Errorf("couldn't send document over %s: %w", c.name, err)
	}
	return nil
}

func (c *SerialConnection) Query(command string) ([]byte, error) {
	if _, err := c.port.Write([]byte(command)); err != nil {
		return nil, fmt.Errorf("couldn't send query %q over %s: %w", command, c.name, err)
	}

	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 512)
	for !bytes.Contains(buf, []byte{ETX}) {
		n, err := c.port.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			return nil, fmt.Errorf("response to %q cut short: %w", command, err)
		}
		// A zero-length read means the port timed out.
		if n == 0 {
			return nil, fmt.Errorf("timed out after %v waiting for response to %q", c.timeout, command)
		}
	}
	slog.Debug("Query returned", "command", command, "size", len(buf))
	return buf, nil
}

func (c *SerialConnection) Close() error {
	return c.port.Close()
}
