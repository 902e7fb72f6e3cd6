package registry

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidRegistry = errors.New("invalid registry")
	ErrLoadRegistry    = errors.New("load registry failed")
)
