// Package equality holds the comparers and hash combiners shared by the
// model packages.
//
// Each model field picks its comparer explicitly: Ordinal, OrdinalIgnoreCase
// or Path. Collections are compared either as sequences, where order is
// significant, or as multisets, where only the counted contents matter.
package equality

import (
	"runtime"
	"strings"
)

// StringComparer compares and hashes strings under one policy.
type StringComparer interface {
	Equal(a, b string) bool
	Hash(s string) uint64
}

type ordinal struct{}

func (ordinal) Equal(a, b string) bool { return a == b }
func (ordinal) Hash(s string) uint64   { return HashString(s) }

type ordinalIgnoreCase struct{}

func (ordinalIgnoreCase) Equal(a, b string) bool { return strings.EqualFold(a, b) }
func (ordinalIgnoreCase) Hash(s string) uint64   { return HashStringFold(s) }

var (
	// Ordinal compares strings byte for byte.
	Ordinal StringComparer = ordinal{}

	// OrdinalIgnoreCase compares strings ignoring case.
	OrdinalIgnoreCase StringComparer = ordinalIgnoreCase{}

	// Path compares file system paths: ignoring case on Windows and macOS,
	// byte for byte elsewhere.
	Path = PathComparer(runtime.GOOS)
)

// PathComparer returns the path comparer used on goos.
func PathComparer(goos string) StringComparer {
	switch goos {
	case "windows", "darwin":
		return OrdinalIgnoreCase
	}
	return Ordinal
}

// Sequence reports whether a and b hold equal elements in the same order.
func Sequence[T any](a, b []T, eq func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Multiset reports whether a and b hold the same elements with the same
// counts, in any order. hash must agree with eq.
func Multiset[T any](a, b []T, hash func(T) uint64, eq func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	buckets := make(map[uint64][]T, len(b))
	for _, y := range b {
		k := hash(y)
		buckets[k] = append(buckets[k], y)
	}
	for _, x := range a {
		k := hash(x)
		bucket := buckets[k]
		found := -1
		for i, y := range bucket {
			if eq(x, y) {
				found = i
				break
			}
		}
		if found < 0 {
			return false
		}
		bucket[found] = bucket[len(bucket)-1]
		buckets[k] = bucket[:len(bucket)-1]
	}
	return true
}

// Strings compares string slices as multisets under c.
func Strings(a, b []string, c StringComparer) bool {
	return Multiset(a, b, c.Hash, c.Equal)
}

// OrderedStrings compares string slices in order under c.
func OrderedStrings(a, b []string, c StringComparer) bool {
	return Sequence(a, b, c.Equal)
}

// Map compares two maps by key, with values compared by eq.
func Map[K comparable, V any](a, b map[K]V, eq func(x, y V) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, x := range a {
		y, ok := b[k]
		if !ok || !eq(x, y) {
			return false
		}
	}
	return true
}

// Ptr compares two optional values. Both nil is equal; one nil is not.
func Ptr[T any](a, b *T, eq func(x, y *T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return eq(a, b)
}

// HashAll maps items to their hashes.
func HashAll[T any](items []T, hash func(T) uint64) []uint64 {
	out := make([]uint64, len(items))
	for i, item := range items {
		out[i] = hash(item)
	}
	return out
}
