package objectwriter

// Hash is the sealed result of a HashObjectWriter.
type Hash struct {
	value string
}

// String returns the base64 digest.
func (h Hash) String() string { return h.value }

// hashBuilder is the open state of a HashObjectWriter.
type hashBuilder struct {
	fn  HashFunction
	enc *encoder
}

func (b *hashBuilder) Write(p []byte) (int, error) {
	b.fn.Update(p)
	return len(p), nil
}

// HashObjectWriter writes a compact document straight into a hash function.
// The first GetHash (or Seal) closes the document; after that every write
// fails with ErrWriterSealed.
type HashObjectWriter struct {
	open   *hashBuilder
	sealed Hash
}

var _ ObjectWriter = (*HashObjectWriter)(nil)

// NewHashObjectWriter starts a document hashed with fn. A nil fn selects
// SHA-512.
func NewHashObjectWriter(fn HashFunction) *HashObjectWriter {
	if fn == nil {
		fn = NewSha512Hash()
	}
	b := &hashBuilder{fn: fn}
	b.enc = newEncoder(b, false)
	return &HashObjectWriter{open: b}
}

func (w *HashObjectWriter) encoder() (*encoder, error) {
	if w.open == nil {
		return nil, ErrWriterSealed
	}
	return w.open.enc, nil
}

// Seal closes the document and returns the digest. Later calls return the
// same digest.
func (w *HashObjectWriter) Seal() (Hash, error) {
	if w.open == nil {
		return w.sealed, nil
	}
	if err := w.open.enc.finish(); err != nil {
		return Hash{}, err
	}
	w.sealed = Hash{value: w.open.fn.GetHash()}
	w.open = nil
	return w.sealed, nil
}

// GetHash seals the writer and returns the digest. Unbalanced documents are
// closed as far as possible first.
func (w *HashObjectWriter) GetHash() string {
	if w.open != nil {
		enc := w.open.enc
		for len(enc.stack) > 1 {
			_ = enc.close(enc.stack[len(enc.stack)-1].array)
		}
	}
	h, _ := w.Seal()
	return h.String()
}

func (w *HashObjectWriter) WriteObjectStart(name string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.open(name, false)
}

func (w *HashObjectWriter) WriteObjectEnd() error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.close(false)
}

func (w *HashObjectWriter) WriteArrayStart(name string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.open(name, true)
}

func (w *HashObjectWriter) WriteArrayEnd() error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.close(true)
}

func (w *HashObjectWriter) WriteNameValue(name, value string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.stringValue(name, value)
}

func (w *HashObjectWriter) WriteNameBool(name string, value bool) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.value(name, boolLiteral(value))
}

func (w *HashObjectWriter) WriteNameInt(name string, value int) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.value(name, intLiteral(value))
}

func (w *HashObjectWriter) WriteNameNull(name string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.value(name, "null")
}

func (w *HashObjectWriter) WriteNameArray(name string, values []string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	return enc.array(name, values)
}

func (w *HashObjectWriter) WriteNonEmptyNameArray(name string, values []string) error {
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return enc.array(name, values)
}
