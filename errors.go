// File: confkit/errors.go
package confkit

import "errors"

var (
	// ErrHandleNotFound is returned when a handle refers to no live entry,
	// either because it was never created here or because it was deleted.
	ErrHandleNotFound = errors.New("handle not found")

	// ErrWrongType is returned when the type parameter used to access an
	// entry does not match the type the entry was created with.
	ErrWrongType = errors.New("stored type does not match requested type")

	// ErrRegistryFull is reserved for a future capacity ceiling.
	// No current operation returns it.
	ErrRegistryFull = errors.New("registry is full")

	// ErrSerialization is returned when a handle cannot be decoded from
	// its serialized integer form.
	ErrSerialization = errors.New("handle serialization failed")

	// ErrEmptyPattern is returned by pattern parsing for an empty string.
	ErrEmptyPattern = errors.New("pattern cannot be empty")

	// ErrConfigNotFound indicates that no configuration file or profile
	// contributed any data.
	ErrConfigNotFound = errors.New("no configuration found")
)
