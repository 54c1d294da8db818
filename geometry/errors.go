package geometry

import (
	errors "github.com/juju/errors"
)

var (
	ErrAlreadyInitialized = errors.New("geometry already initialized with a different config")
)
