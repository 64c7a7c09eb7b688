// File: confkit/handle.go
package confkit

import (
	"fmt"
	"strconv"
)

// Handle is an opaque, process-unique identifier referencing a registry
// entry of type T. A handle does not own data; it is a pure lookup key.
// Handles are cheap to copy and serialize as a bare unsigned integer.
// The zero handle refers to nothing.
//
// Deserializing rebinds the integer to whatever type the caller names;
// type safety is re-checked on the first registry access, not here.
type Handle[T any] struct {
	id uint64
}

// HandleFromID rebinds a raw identifier to a typed handle. The resulting
// handle is only as valid as the identifier it wraps.
func HandleFromID[T any](id uint64) Handle[T] {
	return Handle[T]{id: id}
}

// ID returns the raw identifier.
func (h Handle[T]) ID() uint64 {
	return h.id
}

// IsZero reports whether the handle is the invalid zero handle.
func (h Handle[T]) IsZero() bool {
	return h.id == 0
}

func (h Handle[T]) String() string {
	var zero T
	return fmt.Sprintf("handle[%T](%d)", zero, h.id)
}

// MarshalJSON encodes the handle as a bare unsigned integer.
func (h Handle[T]) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, h.id, 10), nil
}

// UnmarshalJSON decodes a bare unsigned integer into the handle.
func (h *Handle[T]) UnmarshalJSON(data []byte) error {
	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an unsigned integer", ErrSerialization, string(data))
	}
	h.id = id
	return nil
}

// MarshalText encodes the handle as a bare unsigned integer, for use as a
// map key or in text-based formats.
func (h Handle[T]) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, h.id, 10), nil
}

// UnmarshalText decodes a bare unsigned integer into the handle.
func (h *Handle[T]) UnmarshalText(data []byte) error {
	return h.UnmarshalJSON(data)
}
