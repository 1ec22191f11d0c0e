// Package objectwriter provides the structured writers used to render and
// fingerprint the project model.
//
// Every document starts with an implicit root object. JSONWriter renders an
// indented document; HashObjectWriter feeds the compact form of the same
// document into a hash function and seals itself once the digest is taken.
package objectwriter

import "go.trai.ch/zerr"

var (
	// ErrWriterSealed is returned by writes after a hash writer produced its digest.
	ErrWriterSealed = zerr.New("writer is sealed after GetHash")

	// ErrNoOpenObject is returned when closing an object that was never opened,
	// including the implicit root.
	ErrNoOpenObject = zerr.New("no open object to close")

	// ErrNoOpenArray is returned when closing an array that was never opened.
	ErrNoOpenArray = zerr.New("no open array to close")

	// ErrInvalidName is returned for a named value inside an array.
	ErrInvalidName = zerr.New("array elements cannot be named")

	// ErrUnclosedScope is returned by Close while an object or array is open.
	ErrUnclosedScope = zerr.New("object or array left open")
)

// ObjectWriter emits a structured document. Names are property names in an
// object; inside an array the name must be empty.
type ObjectWriter interface {
	WriteObjectStart(name string) error
	WriteObjectEnd() error
	WriteArrayStart(name string) error
	WriteArrayEnd() error
	WriteNameValue(name, value string) error
	WriteNameBool(name string, value bool) error
	WriteNameInt(name string, value int) error
	WriteNameNull(name string) error
	WriteNameArray(name string, values []string) error
	WriteNonEmptyNameArray(name string, values []string) error
}
