package page

import (
	errors "github.com/juju/errors"
)

func errBogus(op string) error {
	return errors.NotSupportedf("%s on a bogus page address", op)
}

func errGarbage(op string) error {
	return errors.NotSupportedf("%s on a garbage page address", op)
}
