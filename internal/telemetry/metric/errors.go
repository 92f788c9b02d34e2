package metric

import (
	"errors"
	"fmt"
)

// DuplicateNameError is returned when a metric name is registered twice
// within the same Registry.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("metric %q already registered", e.Name)
}

// Is reports whether target is a DuplicateNameError for the same name.
// A target with an empty Name matches any duplicate.
func (e *DuplicateNameError) Is(target error) bool {
	t, ok := target.(*DuplicateNameError)
	if !ok {
		return false
	}
	return t.Name == "" || t.Name == e.Name
}

// ErrDuplicateName matches any DuplicateNameError via errors.Is.
var ErrDuplicateName = &DuplicateNameError{}

// IsDuplicateName reports whether err is (or wraps) a DuplicateNameError.
func IsDuplicateName(err error) bool {
	var de *DuplicateNameError
	return errors.As(err, &de)
}
