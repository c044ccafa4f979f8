// Package printer talks to ZPL printers: transports that carry documents
// and diagnostic queries, and parsers for the fixed-format telegrams the
// device answers with.
package printer

import "errors"

// Control bytes framing a diagnostic telegram.
const (
	STX = 0x02
	ETX = 0x03
)

var (
	// ErrMalformedResponse is returned when a diagnostic telegram doesn't
	// match its expected fixed structure.
	ErrMalformedResponse = errors.New("malformed printer response")
	// ErrQueryUnsupported is returned by transports that can only carry
	// documents one way, like a file.
	ErrQueryUnsupported = errors.New("transport does not support queries")
	// ErrNotImplemented is returned by stub transports. They fail loudly
	// rather than degrade to a no-op.
	ErrNotImplemented = errors.New("transport not implemented")
)

// Connection is the transport capability used both to print documents and
// to run diagnostic queries. Implementations block for at most their
// configured timeout and never retry a partially received telegram.
type Connection interface {
	// Send transmits a finished ZPL document.
	Send(document string) error
	// Query transmits a diagnostic command and returns the raw response
	// bytes up to and including the terminating ETX.
	Query(command string) ([]byte, error)

	Close() error
}
