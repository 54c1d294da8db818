package allocator

import (
	errors "github.com/juju/errors"
)

var (
	ErrOutOfSpace = errors.New("segment unit is out of free pages")
)
