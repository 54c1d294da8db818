package unitdesc

import (
	errors "github.com/juju/errors"
)

var (
	errMagicMissMatch      = errors.New("segment unit magic different than expected")
	errUUIDCopyMissMatch   = errors.New("copies of archive UUID are different")
	errZeroPartIsNotZeroed = errors.New("area that should be zero is not")
	errWrongVersion        = errors.New("version is not 1")
	errFlagsReserved       = errors.New("reserved flag is set")
	errBlockSizeDifferent  = errors.New("descriptor size different than geometry")
	errPageCountDifferent  = errors.New("page count different than geometry")
	errUUIDNil             = errors.New("archive UUID is Nil")
)
