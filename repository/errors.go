package repository

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrPartialWrite  = errors.New("partial write")
)

// PartialWriteError reports a multi-step write whose first step committed but a
// later step failed. Nothing is rolled back.
type PartialWriteError struct {
	Op  string
	Err error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPartialWrite, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) Is(target error) bool { return target == ErrPartialWrite }

func validationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
