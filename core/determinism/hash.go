package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// CanonicalWriter accumulates a canonical byte stream for hashing. Every
// field is written with a NUL separator so that adjacent fields can never
// collide regardless of their string forms.
type CanonicalWriter struct {
	h hash.Hash
}

// NewCanonicalWriter creates a writer with an empty stream
func NewCanonicalWriter() *CanonicalWriter {
	return &CanonicalWriter{h: sha256.New()}
}

// Field writes a labeled string field
func (w *CanonicalWriter) Field(name, value string) {
	w.h.Write([]byte(name))
	w.h.Write([]byte{0})
	w.h.Write([]byte(value))
	w.h.Write([]byte{0})
}

// Bool writes a boolean as a fixed token
func (w *CanonicalWriter) Bool(name string, v bool) {
	if v {
		w.Field(name, "true")
	} else {
		w.Field(name, "false")
	}
}

// Int writes an integer field
func (w *CanonicalWriter) Int(name string, v int) {
	w.Field(name, strconv.Itoa(v))
}

// Money writes a monetary field at fixed two-decimal precision
func (w *CanonicalWriter) Money(name string, m Money) {
	w.Field(name, m.RoundCents().String())
}

// Quantity writes a non-money numeric field at fixed four-decimal precision
func (w *CanonicalWriter) Quantity(name string, v float64) {
	w.Field(name, strconv.FormatFloat(v, 'f', 4, 64))
}

// Section marks the start of a named group of fields
func (w *CanonicalWriter) Section(name string) {
	w.h.Write([]byte{0x1e})
	w.h.Write([]byte(name))
	w.h.Write([]byte{0x1e})
}

// Index marks an element position within a sequence
func (w *CanonicalWriter) Index(i int) {
	w.Section(fmt.Sprintf("#%d", i))
}

// Sum finalizes the stream into a content hash
func (w *CanonicalWriter) Sum() ContentHash {
	var h ContentHash
	copy(h[:], w.h.Sum(nil))
	return h
}
