// Package apperr defines the two error kinds the domain layer surfaces to
// callers: a resource that does not exist, and a request rejected by a
// business rule. The HTTP layer maps them to distinct response categories;
// the retry helper uses them to decide what must never be retried.
package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an entity could not be resolved by its id.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// NotFound builds a NotFoundError with a formatted message.
func NotFound(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// BusinessError reports a request rejected by domain policy: duplicate unique
// key, insufficient stock, empty order, invalid postal code, invalid state
// transition.
type BusinessError struct {
	msg string
}

func (e *BusinessError) Error() string { return e.msg }

// Business builds a BusinessError with a formatted message.
func Business(format string, args ...any) error {
	return &BusinessError{msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsBusiness reports whether err is (or wraps) a BusinessError.
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}
