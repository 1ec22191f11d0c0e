package equality

import (
	"encoding/binary"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// HashCode combines field hashes into a single value. Values hashed through
// the same sequence of calls always produce the same sum within a process.
type HashCode struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewHashCode creates an empty combiner.
func NewHashCode() *HashCode {
	return &HashCode{d: xxhash.New()}
}

// AddString hashes s ordinally.
func (h *HashCode) AddString(s string) {
	_, _ = h.d.WriteString(s)
	_, _ = h.d.Write([]byte{0}) // Separator
}

// AddStringFold hashes s ignoring case, under the same folding as
// strings.EqualFold.
func (h *HashCode) AddStringFold(s string) {
	h.AddString(foldString(s))
}

// AddUint64 hashes a raw value.
func (h *HashCode) AddUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

// AddInt hashes n.
func (h *HashCode) AddInt(n int) {
	h.AddUint64(uint64(n))
}

// AddBool hashes b.
func (h *HashCode) AddBool(b bool) {
	if b {
		h.AddUint64(1)
		return
	}
	h.AddUint64(0)
}

// AddUnordered hashes a collection whose order is not significant.
func (h *HashCode) AddUnordered(hashes []uint64) {
	sorted := slices.Clone(hashes)
	slices.Sort(sorted)
	h.AddInt(len(sorted))
	for _, v := range sorted {
		h.AddUint64(v)
	}
}

// AddSequence hashes a collection in order.
func (h *HashCode) AddSequence(hashes []uint64) {
	h.AddInt(len(hashes))
	for _, v := range hashes {
		h.AddUint64(v)
	}
}

// Sum returns the combined hash.
func (h *HashCode) Sum() uint64 {
	return h.d.Sum64()
}

// HashString returns the hash of a single string.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashStringFold returns the case-insensitive hash of a single string.
// Strings equal under strings.EqualFold hash the same.
func HashStringFold(s string) uint64 {
	return xxhash.Sum64String(foldString(s))
}

// foldString maps every rune to the smallest rune of its simple case folding
// orbit, the equivalence strings.EqualFold tests.
func foldString(s string) string {
	return strings.Map(foldRune, s)
}

func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		least = min(least, f)
	}
	return least
}

// HashStrings returns the hashes of values, folded when fold is set.
func HashStrings(values []string, fold bool) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		if fold {
			out[i] = HashStringFold(v)
		} else {
			out[i] = HashString(v)
		}
	}
	return out
}
