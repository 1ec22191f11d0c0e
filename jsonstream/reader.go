// Package jsonstream provides a forward-only UTF-8 JSON token reader over an
// io.Reader.
//
// The reader keeps a single rented buffer. When a token does not fit in the
// unread remainder, the remainder is moved to the front of the buffer and the
// buffer is refilled from the stream; when the token still does not fit, a
// buffer twice the size is rented and the old one returned to the pool.
//
// Example:
//
//	r, err := jsonstream.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	err = r.ReadObject(func(name string) error {
//	    return r.Skip()
//	})
package jsonstream

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"
)

// TokenType identifies the token the reader is positioned on.
type TokenType int

// Token types.
const (
	None TokenType = iota
	StartObject
	EndObject
	StartArray
	EndArray
	PropertyName
	String
	Number
	True
	False
	Null
)

var tokenNames = [...]string{
	None:         "None",
	StartObject:  "StartObject",
	EndObject:    "EndObject",
	StartArray:   "StartArray",
	EndArray:     "EndArray",
	PropertyName: "PropertyName",
	String:       "String",
	Number:       "Number",
	True:         "True",
	False:        "False",
	Null:         "Null",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

const (
	// MinBufferSize is the smallest accepted buffer size.
	MinBufferSize = 1024
	// DefaultBufferSize is the initial buffer size when none is configured.
	DefaultBufferSize = 1024
)

// Option configures a Reader.
type Option func(*options)

type options struct {
	bufferSize     int
	pool           BufferPool
	trailingCommas bool
	onGrow         func(size int)
}

// WithBufferSize sets the initial buffer size.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithPool sets the pool buffers are rented from.
func WithPool(p BufferPool) Option {
	return func(o *options) { o.pool = p }
}

// WithTrailingCommas accepts a comma before a closing brace or bracket.
func WithTrailingCommas() Option {
	return func(o *options) { o.trailingCommas = true }
}

// WithGrowHook registers fn to be called with the new size whenever the
// buffer is replaced by a larger one.
func WithGrowHook(fn func(size int)) Option {
	return func(o *options) { o.onGrow = fn }
}

type expect uint8

const (
	expRootValue expect = iota
	expRootEnd
	expObjFirst
	expObjName
	expColon
	expValue
	expArrFirst
	expArrValue
	expObjNext
	expArrNext
)

// scanState is everything Read mutates. A read works on a copy that is only
// committed once a whole token has been scanned.
type scanState struct {
	pos       int
	line      int
	lineStart int64
	stack     []byte
	expect    expect

	token     TokenType
	valStart  int
	valEnd    int
	escaped   bool
	tokenLine int
	tokenEnd  int64
}

func (s scanState) clone() scanState {
	s.stack = append([]byte(nil), s.stack...)
	return s
}

var (
	errNeedMore      = errors.New("need more data")
	errEndOfDocument = errors.New("end of document")
)

// Reader reads JSON tokens from a stream.
type Reader struct {
	src  io.Reader
	opts options

	buf    []byte
	n      int
	base   int64
	eof    bool
	closed bool

	st scanState
}

// NewReader rents a buffer, skips a UTF-8 byte order mark and positions the
// reader on the first token.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	if r == nil {
		return nil, ErrNilStream
	}

	o := options{bufferSize: DefaultBufferSize, pool: sharedPool}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize < MinBufferSize {
		return nil, zerr.With(zerr.Wrap(ErrBufferSize, "invalid reader options"), "size", o.bufferSize)
	}
	if o.pool == nil {
		o.pool = sharedPool
	}

	rd := &Reader{src: r, opts: o, st: scanState{line: 1}}
	rd.buf = o.pool.Rent(o.bufferSize)

	if err := rd.fill(); err != nil {
		_ = rd.Close()
		return nil, err
	}
	rd.skipBOM()

	if _, err := rd.Read(); err != nil {
		_ = rd.Close()
		return nil, err
	}
	return rd, nil
}

func (r *Reader) skipBOM() {
	if r.n >= 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
		copy(r.buf, r.buf[3:r.n])
		r.n -= 3
	}
}

// fill drops consumed bytes, grows the buffer when no room is left and reads
// until the buffer is full or the stream ends.
func (r *Reader) fill() error {
	if shift := r.st.pos; shift > 0 {
		copy(r.buf, r.buf[shift:r.n])
		r.n -= shift
		r.base += int64(shift)
		r.st.pos = 0
		r.st.valStart -= shift
		r.st.valEnd -= shift
	}

	if r.n == len(r.buf) {
		grown := r.opts.pool.Rent(len(r.buf) * 2)
		copy(grown, r.buf[:r.n])
		r.opts.pool.Return(r.buf)
		r.buf = grown
		if r.opts.onGrow != nil {
			r.opts.onGrow(len(grown))
		}
	}

	empty := 0
	for r.n < len(r.buf) && !r.eof {
		m, err := r.src.Read(r.buf[r.n:])
		r.n += m
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case err != nil:
			return zerr.Wrap(err, "failed to read json stream")
		case m == 0:
			empty++
			if empty > 100 {
				return io.ErrNoProgress
			}
		}
	}
	return nil
}

// Read advances to the next token. It returns false at the end of the
// document.
func (r *Reader) Read() (bool, error) {
	if r.closed {
		return false, ErrReaderClosed
	}
	for {
		st := r.st
		err := r.scan(&st)
		switch {
		case err == nil:
			r.st = st
			return true, nil
		case errors.Is(err, errEndOfDocument):
			return false, nil
		case !errors.Is(err, errNeedMore):
			return false, err
		}
		if err := r.fill(); err != nil {
			return false, err
		}
	}
}

// Skip moves past the current value. On a property name the property's value
// is skipped; on a start token the reader ends on the matching end token.
func (r *Reader) Skip() error {
	if r.closed {
		return ErrReaderClosed
	}
	for {
		snapshot := r.st.clone()
		err := r.skipValue()
		if err == nil {
			return nil
		}
		r.st = snapshot
		if !errors.Is(err, errNeedMore) {
			return err
		}
		if err := r.fill(); err != nil {
			return err
		}
	}
}

// TrySkip skips the current value if it is entirely buffered and reports
// whether it did.
func (r *Reader) TrySkip() bool {
	if r.closed {
		return false
	}
	snapshot := r.st.clone()
	if err := r.skipValue(); err != nil {
		r.st = snapshot
		return false
	}
	return true
}

func (r *Reader) skipValue() error {
	if r.st.token == PropertyName {
		if err := r.scan(&r.st); err != nil {
			return err
		}
	}
	if r.st.token != StartObject && r.st.token != StartArray {
		return nil
	}
	depth := len(r.st.stack)
	for len(r.st.stack) >= depth {
		if err := r.scan(&r.st); err != nil {
			return err
		}
	}
	return nil
}

// Close returns the buffer to the pool. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.buf != nil {
		r.opts.pool.Return(r.buf)
		r.buf = nil
	}
	return nil
}

// TokenType returns the type of the current token.
func (r *Reader) TokenType() TokenType { return r.st.token }

// Line returns the 1-based line of the current token.
func (r *Reader) Line() int { return r.st.tokenLine }

// Column returns the byte offset just past the current token on its line.
func (r *Reader) Column() int { return int(r.st.tokenEnd - r.st.lineStart) }

// Depth returns the nesting depth of the current token.
func (r *Reader) Depth() int {
	d := len(r.st.stack)
	if r.st.token == StartObject || r.st.token == StartArray {
		d--
	}
	return d
}

// BufferSize returns the size of the current buffer.
func (r *Reader) BufferSize() int { return len(r.buf) }

// IsFinalBlock reports whether the stream has been read to its end.
func (r *Reader) IsFinalBlock() bool { return r.eof }

// BytesConsumed returns the stream offset just past the current token.
func (r *Reader) BytesConsumed() int64 { return r.base + int64(r.st.pos) }

// GetString returns the unescaped value of a String or PropertyName token,
// and "" for any other token.
func (r *Reader) GetString() string {
	if (r.st.token != String && r.st.token != PropertyName) || r.st.valStart < 1 {
		return ""
	}
	raw := r.buf[r.st.valStart:r.st.valEnd]
	if !r.st.escaped {
		return string(raw)
	}
	var s string
	if err := json.Unmarshal(r.buf[r.st.valStart-1:r.st.valEnd+1], &s); err != nil {
		return string(raw)
	}
	return s
}

// ValueTextEquals compares the unescaped string value with text.
func (r *Reader) ValueTextEquals(text string) bool {
	if r.st.token != String && r.st.token != PropertyName {
		return false
	}
	return r.GetString() == text
}

// ValueBytes returns a copy of the raw bytes of the current token.
func (r *Reader) ValueBytes() []byte {
	if r.st.valStart < 0 || r.st.valEnd > r.n {
		return nil
	}
	return append([]byte(nil), r.buf[r.st.valStart:r.st.valEnd]...)
}

func (r *Reader) rawText() string {
	if r.st.valStart < 0 || r.st.valEnd > r.n {
		return ""
	}
	return string(r.buf[r.st.valStart:r.st.valEnd])
}

// GetBool returns the value of a True or False token.
func (r *Reader) GetBool() (bool, error) {
	switch r.st.token {
	case True:
		return true, nil
	case False:
		return false, nil
	}
	return false, &CastError{Expected: "Boolean", Found: r.st.token}
}

// GetInt returns the value of an integral Number token.
func (r *Reader) GetInt() (int, error) {
	if r.st.token != Number {
		return 0, &CastError{Expected: "Int32", Found: r.st.token}
	}
	n, err := strconv.Atoi(r.rawText())
	if err != nil {
		return 0, &CastError{Expected: "Int32", Found: r.st.token}
	}
	return n, nil
}

// GetInt64 returns the value of an integral Number token.
func (r *Reader) GetInt64() (int64, error) {
	if r.st.token != Number {
		return 0, &CastError{Expected: "Int64", Found: r.st.token}
	}
	n, err := strconv.ParseInt(r.rawText(), 10, 64)
	if err != nil {
		return 0, &CastError{Expected: "Int64", Found: r.st.token}
	}
	return n, nil
}

// GetFloat64 returns the value of a Number token.
func (r *Reader) GetFloat64() (float64, error) {
	if r.st.token != Number {
		return 0, &CastError{Expected: "Double", Found: r.st.token}
	}
	f, err := strconv.ParseFloat(r.rawText(), 64)
	if err != nil {
		return 0, &CastError{Expected: "Double", Found: r.st.token}
	}
	return f, nil
}

func (r *Reader) scan(st *scanState) error {
	for {
		c, err := r.skipSpace(st)
		if err != nil {
			return err
		}

		switch st.expect {
		case expRootEnd:
			return r.syntaxError(st, fmt.Sprintf("'%c' is invalid after a single JSON value", c))

		case expObjNext, expArrNext:
			closer, next := byte('}'), expObjName
			if st.expect == expArrNext {
				closer, next = ']', expArrValue
			}
			switch c {
			case ',':
				st.pos++
				st.expect = next
				continue
			case closer:
				return r.closeContainer(st)
			}
			return r.syntaxError(st, fmt.Sprintf("'%c' is invalid after a value, expected ',' or '%c'", c, closer))

		case expColon:
			if c != ':' {
				return r.syntaxError(st, fmt.Sprintf("'%c' is invalid after a property name, expected ':'", c))
			}
			st.pos++
			st.expect = expValue
			continue

		case expObjFirst, expObjName:
			if c == '}' && (st.expect == expObjFirst || r.opts.trailingCommas) {
				return r.closeContainer(st)
			}
			if c != '"' {
				return r.syntaxError(st, fmt.Sprintf("'%c' is an invalid start of a property name", c))
			}
			if err := r.scanString(st); err != nil {
				return err
			}
			st.token = PropertyName
			st.expect = expColon
			return nil

		case expArrFirst, expArrValue:
			if c == ']' && (st.expect == expArrFirst || r.opts.trailingCommas) {
				return r.closeContainer(st)
			}
		}

		return r.scanValue(st, c)
	}
}

func (r *Reader) skipSpace(st *scanState) (byte, error) {
	for st.pos < r.n {
		switch c := r.buf[st.pos]; c {
		case ' ', '\t', '\r':
			st.pos++
		case '\n':
			st.pos++
			st.line++
			st.lineStart = r.base + int64(st.pos)
		default:
			return c, nil
		}
	}
	return 0, r.endOfBuffer(st)
}

func (r *Reader) endOfBuffer(st *scanState) error {
	if !r.eof {
		return errNeedMore
	}
	if st.expect == expRootEnd {
		return errEndOfDocument
	}
	return r.syntaxError(st, "unexpected end of data")
}

func (r *Reader) scanValue(st *scanState, c byte) error {
	switch {
	case c == '{':
		st.stack = append(st.stack, '{')
		st.expect = expObjFirst
		st.pos++
		r.setToken(st, StartObject, st.pos-1, st.pos, false)
		return nil
	case c == '[':
		st.stack = append(st.stack, '[')
		st.expect = expArrFirst
		st.pos++
		r.setToken(st, StartArray, st.pos-1, st.pos, false)
		return nil
	case c == '"':
		if err := r.scanString(st); err != nil {
			return err
		}
		st.token = String
		r.afterValue(st)
		return nil
	case c == 't':
		return r.scanLiteral(st, "true", True)
	case c == 'f':
		return r.scanLiteral(st, "false", False)
	case c == 'n':
		return r.scanLiteral(st, "null", Null)
	case c == '-' || (c >= '0' && c <= '9'):
		return r.scanNumber(st)
	}
	return r.syntaxError(st, fmt.Sprintf("'%c' is an invalid start of a value", c))
}

func (r *Reader) closeContainer(st *scanState) error {
	top := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
	st.pos++
	tt := EndObject
	if top == '[' {
		tt = EndArray
	}
	r.setToken(st, tt, st.pos-1, st.pos, false)
	r.afterValue(st)
	return nil
}

func (r *Reader) afterValue(st *scanState) {
	switch {
	case len(st.stack) == 0:
		st.expect = expRootEnd
	case st.stack[len(st.stack)-1] == '{':
		st.expect = expObjNext
	default:
		st.expect = expArrNext
	}
}

func (r *Reader) setToken(st *scanState, tt TokenType, start, end int, escaped bool) {
	st.token = tt
	st.valStart = start
	st.valEnd = end
	st.escaped = escaped
	st.tokenLine = st.line
	st.tokenEnd = r.base + int64(st.pos)
}

// scanString scans the string starting at st.pos and leaves st.pos past the
// closing quote. The caller sets the token type.
func (r *Reader) scanString(st *scanState) error {
	escaped := false
	i := st.pos + 1
	for i < r.n {
		c := r.buf[i]
		switch {
		case c == '"':
			if escaped && !json.Valid(r.buf[st.pos:i+1]) {
				return r.syntaxError(st, "invalid escape sequence in string")
			}
			start := st.pos + 1
			st.pos = i + 1
			r.setToken(st, String, start, i, escaped)
			return nil
		case c == '\\':
			escaped = true
			i += 2
		case c < 0x20:
			at := *st
			at.pos = i
			return r.syntaxError(&at, "invalid control character in string")
		default:
			i++
		}
	}
	if !r.eof {
		return errNeedMore
	}
	return r.syntaxError(st, "unterminated string")
}

func (r *Reader) scanLiteral(st *scanState, lit string, tt TokenType) error {
	end := st.pos + len(lit)
	if end > r.n {
		if !r.eof && strings.HasPrefix(lit, string(r.buf[st.pos:r.n])) {
			return errNeedMore
		}
		return r.syntaxError(st, "invalid literal, expected '"+lit+"'")
	}
	if string(r.buf[st.pos:end]) != lit {
		return r.syntaxError(st, "invalid literal, expected '"+lit+"'")
	}
	if end == r.n && !r.eof {
		return errNeedMore
	}
	if end < r.n && !isDelimiter(r.buf[end]) {
		return r.syntaxError(st, "invalid literal, expected '"+lit+"'")
	}
	start := st.pos
	st.pos = end
	r.setToken(st, tt, start, end, false)
	r.afterValue(st)
	return nil
}

func (r *Reader) scanNumber(st *scanState) error {
	i := st.pos
	for i < r.n && isNumberByte(r.buf[i]) {
		i++
	}
	if i == r.n && !r.eof {
		return errNeedMore
	}
	if (i < r.n && !isDelimiter(r.buf[i])) || !json.Valid(r.buf[st.pos:i]) {
		return r.syntaxError(st, "invalid number")
	}
	start := st.pos
	st.pos = i
	r.setToken(st, Number, start, i, false)
	r.afterValue(st)
	return nil
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', '}', ']':
		return true
	}
	return false
}

func (r *Reader) syntaxError(st *scanState, msg string) error {
	offset := r.base + int64(st.pos)
	return &SyntaxError{
		Msg:    msg,
		Line:   st.line,
		Column: int(offset - st.lineStart),
		Offset: offset,
	}
}
