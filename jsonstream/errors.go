package jsonstream

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrNilStream is returned when NewReader is given a nil io.Reader.
	ErrNilStream = zerr.New("stream cannot be nil")

	// ErrBufferSize is returned for buffers smaller than MinBufferSize.
	ErrBufferSize = zerr.New("buffer size must be at least 1024 bytes")

	// ErrReaderClosed is returned by Read and Skip after Close.
	ErrReaderClosed = zerr.New("reader is closed")
)

// SyntaxError reports malformed JSON. Line is 1-based; Column is the byte
// offset on that line where scanning stopped.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
	Offset int64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

// CastError reports a token that cannot be converted to the requested type.
type CastError struct {
	Expected string
	Found    TokenType
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot read %s token as %s", e.Found, e.Expected)
}
