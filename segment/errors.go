package segment

import (
	errors "github.com/juju/errors"
)

var (
	ErrBitmapTooShort = errors.NotValidf("bitmap shorter than its length prefix")
)
