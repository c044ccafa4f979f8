package printer

import (
	"fmt"
	"os"
)

// FileConnection writes documents to a file instead of a device, for
// inspection or later spooling. Queries fail: there is no device to answer
// them.
type FileConnection struct {
	file *os.File
}

// OpenFile opens path for writing documents. With appendTo set, documents
// are appended to an existing file rather than replacing it.
func OpenFile(path string, appendTo bool) (*FileConnection, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("couldn't open output file: %w", err)
	}
	return &FileConnection{file: f}, nil
}

func (c *FileConnection) Send(document string) error {
	if _, err := c.file.WriteString(document); err != nil {
		return fmt.Errorf("couldn't write document to %s: %w", c.file.Name(), err)
	}
	return nil
}

func (c *FileConnection) Query(command string) ([]byte, error) {
	return nil, fmt.Errorf("query %q against a file: %w", command, ErrQueryUnsupported)
}

func (c *FileConnection) Close() error {
	return c.file.Close()
}
