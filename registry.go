// File: confkit/registry.go
package confkit

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Registry is a concurrent, type-erased store handing out opaque typed
// handles instead of raw data copies. Entries are immutable once created:
// Update swaps the whole entry under the same identifier, so readers
// holding a previously returned value keep observing the pre-update
// snapshot.
//
// Per-key operations are linearizable without a global lock; statistics
// live behind a separate reader-writer lock because they need multi-field
// atomicity that per-entry concurrency does not provide.
type Registry struct {
	entries sync.Map // uint64 -> *entry
	nextID  atomic.Uint64

	startup uint64
	log     *zap.Logger

	flagMu  sync.RWMutex
	runtime uint64

	statsMu sync.RWMutex
	stats   RegistryStats
}

// entry is the internal record backing one live handle. Owned exclusively
// by the registry, never exposed.
type entry struct {
	payload    any // *T, the shared instance returned to every reader
	typeName   string
	size       int64
	created    time.Time
	lastAccess atomic.Int64 // unix nanos, maintained under StartupTrackAccess
}

// RegistryStats is a point-in-time snapshot of aggregate counters.
type RegistryStats struct {
	Creates     uint64
	Reads       uint64
	Updates     uint64
	Deletes     uint64
	LiveHandles uint64
	MemoryBytes int64
}

// RegistryOptions configures registry construction. Startup flags are read
// once here and are immutable afterwards.
type RegistryOptions struct {
	Startup uint64
	Logger  *zap.Logger
}

// NewRegistry creates a registry with default options: no startup flags
// beyond approximate size accounting, no logging.
func NewRegistry() *Registry {
	return NewRegistryWithOptions(RegistryOptions{Startup: StartupApproxSizes})
}

// NewRegistryWithOptions creates a registry with explicit options.
// Unknown startup bits are logged and dropped, mirroring runtime flag
// validation.
func NewRegistryWithOptions(opts RegistryOptions) *Registry {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if invalid := opts.Startup &^ startupFlagMask; invalid != 0 {
		log.Warn("ignoring unknown startup flag bits",
			zap.Uint64("bits", invalid))
	}

	return &Registry{
		startup: opts.Startup & startupFlagMask,
		log:     log,
	}
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Default returns the lazily-initialized process-wide registry. All access
// goes through this accessor; there is no directly mutable global.
func Default() *Registry {
	return defaultRegistry()
}

// Create stores a value and mints the next handle for it. Identifiers are
// monotonically increasing and never recycled, so a stale handle can never
// alias a later entry. Create has no capacity ceiling and always succeeds.
func Create[T any](r *Registry, value T) Handle[T] {
	id := r.nextID.Add(1)

	e := &entry{
		payload:  &value,
		typeName: typeNameOf[T](),
		created:  time.Now(),
	}
	if r.startup&StartupApproxSizes != 0 {
		e.size = approxSize(value)
	}

	r.entries.Store(id, e)

	r.statsMu.Lock()
	r.stats.Creates++
	r.stats.LiveHandles++
	r.stats.MemoryBytes += e.size
	r.statsMu.Unlock()

	return Handle[T]{id: id}
}

// Read returns the shared instance behind the handle. The returned pointer
// is the same instance every concurrent reader observes; treat it as
// read-only and use Update to change the stored value.
func Read[T any](r *Registry, h Handle[T]) (*T, error) {
	e, err := lookup[T](r, h)
	if err != nil {
		return nil, err
	}

	if r.startup&StartupTrackAccess != 0 {
		e.lastAccess.Store(time.Now().UnixNano())
	}

	r.statsMu.Lock()
	r.stats.Reads++
	r.statsMu.Unlock()

	return e.payload.(*T), nil
}

// Update atomically replaces the entry behind the handle with a freshly
// boxed value under the same identifier. Holders of a previously read
// pointer keep seeing the old value.
func Update[T any](r *Registry, h Handle[T], value T) error {
	fresh := &entry{
		payload:  &value,
		typeName: typeNameOf[T](),
		created:  time.Now(),
	}
	if r.startup&StartupApproxSizes != 0 {
		fresh.size = approxSize(value)
	}

	for {
		old, ok := r.entries.Load(h.id)
		if !ok {
			return fmt.Errorf("update handle %d: %w", h.id, ErrHandleNotFound)
		}
		if r.entries.CompareAndSwap(h.id, old, fresh) {
			oldSize := old.(*entry).size

			r.statsMu.Lock()
			r.stats.Updates++
			r.stats.MemoryBytes += fresh.size - oldSize
			r.statsMu.Unlock()
			return nil
		}
		// Lost a race against a concurrent update or delete; re-check.
	}
}

// Delete removes the entry behind the handle and returns its shared
// instance. Subsequent reads and deletes of the same handle fail with
// ErrHandleNotFound.
func Delete[T any](r *Registry, h Handle[T]) (*T, error) {
	for {
		e, err := lookup[T](r, h)
		if err != nil {
			return nil, err
		}
		if r.entries.CompareAndDelete(h.id, e) {
			r.statsMu.Lock()
			r.stats.Deletes++
			r.stats.LiveHandles--
			r.stats.MemoryBytes -= e.size
			r.statsMu.Unlock()

			return e.payload.(*T), nil
		}
		// Entry swapped concurrently; retry against the current one.
	}
}

// Stats returns a snapshot of the aggregate counters. No side effects.
func (r *Registry) Stats() RegistryStats {
	r.statsMu.RLock()
	defer r.statsMu.RUnlock()
	return r.stats
}

// lookup fetches the entry for a handle and verifies the stored type name
// against T before any assertion is attempted, so a mismatch surfaces as
// ErrWrongType rather than reinterpreted data.
func lookup[T any](r *Registry, h Handle[T]) (*entry, error) {
	value, ok := r.entries.Load(h.id)
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", h.id, ErrHandleNotFound)
	}
	e := value.(*entry)

	if want := typeNameOf[T](); e.typeName != want {
		return nil, fmt.Errorf("handle %d holds %s, requested %s: %w",
			h.id, e.typeName, want, ErrWrongType)
	}
	return e, nil
}

// typeNameOf returns the static type name used for runtime verification.
func typeNameOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// approxSize estimates the in-memory footprint of a value. The estimate
// backs the memory statistic only; it is not an allocator measurement.
func approxSize(v any) int64 {
	return approxSizeValue(reflect.ValueOf(v), 0)
}

func approxSizeValue(v reflect.Value, depth int) int64 {
	const maxDepth = 8
	if !v.IsValid() || depth > maxDepth {
		return 0
	}

	switch v.Kind() {
	case reflect.String:
		return int64(v.Len()) + 16
	case reflect.Slice, reflect.Array:
		size := int64(24)
		for i := 0; i < v.Len(); i++ {
			size += approxSizeValue(v.Index(i), depth+1)
		}
		return size
	case reflect.Map:
		size := int64(48)
		iter := v.MapRange()
		for iter.Next() {
			size += approxSizeValue(iter.Key(), depth+1)
			size += approxSizeValue(iter.Value(), depth+1)
		}
		return size
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return 8
		}
		return 8 + approxSizeValue(v.Elem(), depth+1)
	case reflect.Struct:
		size := int64(0)
		for i := 0; i < v.NumField(); i++ {
			size += approxSizeValue(v.Field(i), depth+1)
		}
		return size
	default:
		return int64(v.Type().Size())
	}
}
