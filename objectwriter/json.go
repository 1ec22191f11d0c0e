package objectwriter

import (
	"bufio"
	"bytes"
	"io"
)

// JSONWriter renders an indented JSON document to an io.Writer.
type JSONWriter struct {
	buf *bufio.Writer
	enc *encoder
}

var _ ObjectWriter = (*JSONWriter)(nil)

// NewJSONWriter starts a document on w. Close must be called to finish it.
func NewJSONWriter(w io.Writer) *JSONWriter {
	buf := bufio.NewWriter(w)
	return &JSONWriter{buf: buf, enc: newEncoder(buf, true)}
}

func (w *JSONWriter) WriteObjectStart(name string) error { return w.enc.open(name, false) }
func (w *JSONWriter) WriteObjectEnd() error              { return w.enc.close(false) }
func (w *JSONWriter) WriteArrayStart(name string) error  { return w.enc.open(name, true) }
func (w *JSONWriter) WriteArrayEnd() error               { return w.enc.close(true) }

func (w *JSONWriter) WriteNameValue(name, value string) error {
	return w.enc.stringValue(name, value)
}

func (w *JSONWriter) WriteNameBool(name string, value bool) error {
	return w.enc.value(name, boolLiteral(value))
}

func (w *JSONWriter) WriteNameInt(name string, value int) error {
	return w.enc.value(name, intLiteral(value))
}

func (w *JSONWriter) WriteNameNull(name string) error {
	return w.enc.value(name, "null")
}

func (w *JSONWriter) WriteNameArray(name string, values []string) error {
	return w.enc.array(name, values)
}

// WriteNonEmptyNameArray writes the array only when it has elements.
func (w *JSONWriter) WriteNonEmptyNameArray(name string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	return w.enc.array(name, values)
}

// Close closes the root object and flushes. It does not close the
// underlying writer.
func (w *JSONWriter) Close() error {
	if err := w.enc.finish(); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Render runs fn against a fresh JSONWriter and returns the document.
func Render(fn func(ObjectWriter) error) ([]byte, error) {
	var out bytes.Buffer
	w := NewJSONWriter(&out)
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
