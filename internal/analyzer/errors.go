package analyzer

import "fmt"

// SaveError reports a failed write of one result file.
type SaveError struct {
	File string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.File, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
