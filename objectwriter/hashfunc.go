package objectwriter

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"hash"
)

// HashFunction accumulates bytes and renders a base64 digest.
type HashFunction interface {
	Update(data []byte)
	GetHash() string
}

// Sha512Hash is the default fingerprint function.
type Sha512Hash struct {
	h hash.Hash
}

// NewSha512Hash creates a SHA-512 hash function.
func NewSha512Hash() *Sha512Hash {
	return &Sha512Hash{h: sha512.New()}
}

// Update feeds data into the hash.
func (s *Sha512Hash) Update(data []byte) {
	_, _ = s.h.Write(data)
}

// GetHash returns the base64 encoded digest.
func (s *Sha512Hash) GetHash() string {
	return base64.StdEncoding.EncodeToString(s.h.Sum(nil))
}

// FnvHash64 is the FNV-1a 64-bit hash, a cheaper alternative fingerprint.
type FnvHash64 struct {
	hash uint64
}

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// NewFnvHash64 creates a new FNV-1a 64-bit hash.
func NewFnvHash64() *FnvHash64 {
	return &FnvHash64{hash: fnvOffset}
}

// Update feeds data into the hash.
func (f *FnvHash64) Update(data []byte) {
	for _, b := range data {
		f.hash = (f.hash ^ uint64(b)) * fnvPrime
	}
}

// GetHash returns the base64 encoding of the little-endian sum.
func (f *FnvHash64) GetHash() string {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], f.hash)
	return base64.StdEncoding.EncodeToString(b[:])
}

// Sum returns the raw 64-bit sum.
func (f *FnvHash64) Sum() uint64 {
	return f.hash
}

// NewHashFunction returns the hash function registered under name: "sha512"
// (the default, also used for "") or "fnv".
func NewHashFunction(name string) (HashFunction, bool) {
	switch name {
	case "", "sha512":
		return NewSha512Hash(), true
	case "fnv", "fnv64":
		return NewFnvHash64(), true
	}
	return nil, false
}
