package printer

import "fmt"

// DatagramConnection is a placeholder for UDP printing. Every call fails
// with ErrNotImplemented so a misconfigured caller notices immediately.
type DatagramConnection struct{}

func (DatagramConnection) Send(string) error {
	return fmt.Errorf("datagram transport: %w", ErrNotImplemented)
}

func (DatagramConnection) Query(string) ([]byte, error) {
	return nil, fmt.Errorf("datagram transport: %w", ErrNotImplemented)
}

func (DatagramConnection) Close() error {
	return nil
}
