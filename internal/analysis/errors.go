package analysis

import (
	"errors"
	"fmt"
)

// Load failure kinds. Match with errors.Is against a *LoadError.
var (
	ErrDataNotFound  = errors.New("data file not found")
	ErrMalformedData = errors.New("data file unreadable or malformed")
)

// LoadError reports why a dataset could not be loaded.
type LoadError struct {
	Path string
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%v at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v at %s", e.Kind, e.Path)
}

// Is lets errors.Is(err, ErrDataNotFound) match on the kind.
func (e *LoadError) Is(target error) bool { return e != nil && e.Kind == target }

func (e *LoadError) Unwrap() error { return e.Err }
