package action

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by the Factory when no constructor is
// registered for the requested kind.
var ErrUnknownKind = errors.New("unknown action kind")

// ValidationError reports a payload whose kind does not match the
// constructor it was handed to.
type ValidationError struct {
	Got  Kind
	Want Kind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("action payload kind %s does not match constructor kind %s", e.Got, e.Want)
}

// MergeError reports a merge attempted on an incompatible pair.
type MergeError struct {
	A Kind
	B Kind
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("cannot merge %s with %s", e.A, e.B)
}
