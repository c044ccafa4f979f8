package zpl

import "errors"

// Validation errors raised while building a label. They are returned at the
// call that violates the contract, never deferred to Document().
var (
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)
