package projectmodel

import (
	"errors"
	"fmt"

	"github.com/willibrandon/projectmodel/jsonstream"
	"go.trai.ch/zerr"
)

var (
	// ErrMissingVersion is the cause of a package dependency declared without
	// a version.
	ErrMissingVersion = zerr.New("Package dependencies must specify a version range.")

	// ErrNoProject is returned when a dependency graph spec has no project
	// with the requested unique name.
	ErrNoProject = zerr.New("project not found in dependency graph")
)

// FileFormatError reports a document that could not be read. Line and
// Column locate the token the reader had reached, 1-based; both are zero
// when the position is unknown.
type FileFormatError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *FileFormatError) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *FileFormatError) Unwrap() error { return e.Err }

// newFormatError reports message verbatim at the reader's position.
func newFormatError(message, path string, line, column int) *FileFormatError {
	return &FileFormatError{Path: path, Line: line, Column: column, Message: message}
}

// wrapFormatError reports err as the cause of a failed read of path.
func wrapFormatError(err error, path string, line, column int) *FileFormatError {
	var msg string
	if line > 0 {
		msg = fmt.Sprintf("Error reading '%s' at line %d column %d : %s", path, line, column, err.Error())
	} else {
		msg = fmt.Sprintf("Error reading '%s' : %s", path, err.Error())
	}
	return &FileFormatError{Path: path, Line: line, Column: column, Message: msg, Err: err}
}

// IsFileFormatError reports whether err is, or wraps, a *FileFormatError.
func IsFileFormatError(err error) bool {
	var ffe *FileFormatError
	return errors.As(err, &ffe)
}

// castError is a value of the wrong JSON kind for the property being read.
type castError struct {
	err *jsonstream.CastError
}

func (e *castError) Error() string { return "Specified cast is not valid." }
func (e *castError) Unwrap() error { return e.err }

// asCastError converts a reader cast failure into the message used in
// format errors and leaves other errors alone.
func asCastError(err error) error {
	var ce *jsonstream.CastError
	if errors.As(err, &ce) {
		return &castError{err: ce}
	}
	return err
}
