package printer

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// DefaultPort is the raw printing port ZPL printers listen on.
const DefaultPort = "9100"

// TCPConnection drives a printer over its raw TCP printing port.
type TCPConnection struct {
	conn    net.Conn
	timeout time.Duration
}

// DialTCP connects to the printer at addr. When addr carries no port the
// raw printing port 9100 is used. The timeout bounds the dial and every
// following send or query.
func DialTCP(addr string, timeout time.Duration) (*TCPConnection, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, DefaultPort)
	}

	slog.Debug("Connecting to printer", "addr", addr)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to printer at %s: %w", addr, err)
	}
	return &TCPConnection{conn: conn, timeout: timeout}, nil
}

func (c *TCPConnection) Send(document string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	if _, err := c.conn.Write([]byte(document)); err != nil {
		return fmt.Errorf("couldn't send document: %w", err)
	}
	slog.Debug("Sent document", "size", len(document))
	return nil
}

func (c *TCPConnection) Query(command string) ([]byte, error) {
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write([]byte(command)); err != nil {
		return nil, fmt.Errorf("couldn't send query %q: %w", command, err)
	}

	// Telegrams are terminated by ETX; anything cut short by the deadline
	// surfaces as a transport error, the caller decides what to do.
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for !bytes.Contains(buf, []byte{ETX}) {
		n, err := c.conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			return nil, fmt.Errorf("response to %q cut short: %w", command, err)
		}
	}
	slog.Debug("Query returned", "command", command, "size", len(buf))
	return buf, nil
}

func (c *TCPConnection) Close() error {
	return c.conn.Close()
}
