package engine

import "fmt"

// ValidationError reports unusable input, such as a roster that does not
// contain exactly six teams. No generation work happens after one is raised.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SchedulingError reports that no feasible date assignment exists inside the
// configured season window.
type SchedulingError struct {
	Message string
}

func (e *SchedulingError) Error() string { return e.Message }

// DataLookupError wraps a failure from the team/stadium directory or the
// previous-season history. The underlying error is preserved for callers.
type DataLookupError struct {
	Op  string
	Err error
}

func (e *DataLookupError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *DataLookupError) Unwrap() error { return e.Err }
