package platform

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no node or window matches a lookup.
var ErrNotFound = errors.New("element not found")

// ErrUnexpected wraps backend failures that are neither a miss nor an
// ambiguity (COM errors, dead processes, ...).
var ErrUnexpected = errors.New("unexpected backend error")

// AmbiguousMatchError is returned when a lookup matches more than one node.
type AmbiguousMatchError struct {
	Criteria Criteria
	Count    int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%d elements match %s", e.Count, e.Criteria)
}

// IsNotFound reports whether err is a miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguous reports whether err is an ambiguous match.
func IsAmbiguous(err error) bool {
	var amb *AmbiguousMatchError
	return errors.As(err, &amb)
}

// Unexpected wraps err so that errors.Is(err, ErrUnexpected) holds.
func Unexpected(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnexpected, err)
}
