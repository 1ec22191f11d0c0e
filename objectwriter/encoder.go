package objectwriter

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"
)

type frame struct {
	array bool
	count int
}

// encoder writes JSON tokens in order, either compact or indented by two
// spaces. The root object is opened on construction.
type encoder struct {
	w      io.Writer
	indent bool
	stack  []frame
	err    error

	scratch bytes.Buffer
	strEnc  *json.Encoder
}

func newEncoder(w io.Writer, indent bool) *encoder {
	e := &encoder{w: w, indent: indent, stack: []frame{{}}}
	e.strEnc = json.NewEncoder(&e.scratch)
	e.strEnc.SetEscapeHTML(false)
	e.raw("{")
	return e
}

func (e *encoder) raw(s string) {
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = zerr.Wrap(err, "failed to write json")
	}
}

// str writes s as a JSON string. '<', '>' and '&' are written as is.
func (e *encoder) str(s string) {
	e.scratch.Reset()
	if err := e.strEnc.Encode(s); err != nil {
		if e.err == nil {
			e.err = zerr.Wrap(err, "failed to encode string")
		}
		return
	}
	e.raw(string(bytes.TrimSuffix(e.scratch.Bytes(), []byte("\n"))))
}

func (e *encoder) newline(depth int) {
	if e.indent {
		e.raw("\n" + strings.Repeat("  ", depth))
	}
}

// member starts a value in the current container, writing the separator,
// indentation and, inside an object, the property name.
func (e *encoder) member(name string) error {
	top := &e.stack[len(e.stack)-1]
	if top.array && name != "" {
		return zerr.With(zerr.Wrap(ErrInvalidName, "cannot write named value"), "name", name)
	}
	if top.count > 0 {
		e.raw(",")
	}
	top.count++
	e.newline(len(e.stack))
	if !top.array {
		e.str(name)
		if e.indent {
			e.raw(": ")
		} else {
			e.raw(":")
		}
	}
	return nil
}

func (e *encoder) open(name string, array bool) error {
	if err := e.member(name); err != nil {
		return err
	}
	if array {
		e.raw("[")
	} else {
		e.raw("{")
	}
	e.stack = append(e.stack, frame{array: array})
	return e.err
}

func (e *encoder) close(array bool) error {
	if len(e.stack) < 2 || e.stack[len(e.stack)-1].array != array {
		if array {
			return ErrNoOpenArray
		}
		return ErrNoOpenObject
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if top.count > 0 {
		e.newline(len(e.stack))
	}
	if array {
		e.raw("]")
	} else {
		e.raw("}")
	}
	return e.err
}

func (e *encoder) value(name, literal string) error {
	if err := e.member(name); err != nil {
		return err
	}
	e.raw(literal)
	return e.err
}

func (e *encoder) stringValue(name, value string) error {
	if err := e.member(name); err != nil {
		return err
	}
	e.str(value)
	return e.err
}

func (e *encoder) array(name string, values []string) error {
	if err := e.member(name); err != nil {
		return err
	}
	e.raw("[")
	depth := len(e.stack)
	for i, v := range values {
		if i > 0 {
			e.raw(",")
		}
		e.newline(depth + 1)
		e.str(v)
	}
	if len(values) > 0 {
		e.newline(depth)
	}
	e.raw("]")
	return e.err
}

// finish closes the root object.
func (e *encoder) finish() error {
	if len(e.stack) != 1 {
		return ErrUnclosedScope
	}
	if e.stack[0].count > 0 {
		e.newline(0)
	}
	e.raw("}")
	e.stack = nil
	return e.err
}

func boolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intLiteral(n int) string {
	return strconv.Itoa(n)
}
