package persist

import "fmt"

// WriteError is returned by Save when a record sequence could not be persisted.
// The target file is unchanged when a WriteError is returned.
type WriteError struct {
	// Op is the step that failed (encode, create, write, sync, close, rename)
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("persist: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReadError describes a data file that exists but could not be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("persist: cannot load %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
