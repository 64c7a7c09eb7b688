// File: confkit/flags.go
package confkit

import "go.uber.org/zap"

// Startup flags fix structural choices at registry construction and are
// immutable for the lifetime of the instance.
const (
	// StartupTrackAccess maintains a last-access timestamp per entry.
	StartupTrackAccess uint64 = 1 << iota
	// StartupApproxSizes computes an approximate byte size per entry and
	// maintains the registry memory statistic.
	StartupApproxSizes
)

// Runtime flags are mutable feature toggles, independent of startup flags.
// Feature code checks them by bitwise AND via HasFlag.
const (
	// FlagStrictValidation makes profile decoding reject unused keys.
	FlagStrictValidation uint64 = 1 << iota
	// FlagParallelLoad lets provider-driven stores parse files concurrently.
	FlagParallelLoad
)

const (
	startupFlagMask = StartupTrackAccess | StartupApproxSizes
	runtimeFlagMask = FlagStrictValidation | FlagParallelLoad
)

// Enable sets the given runtime flags. Bits outside the known runtime flag
// mask are logged and dropped; the call never fails, so builder-style
// chains need no per-step error handling. Returns the same registry for
// chaining.
func (r *Registry) Enable(flags uint64) *Registry {
	if invalid := flags &^ runtimeFlagMask; invalid != 0 {
		r.log.Warn("ignoring unknown runtime flag bits",
			zap.Uint64("bits", invalid))
	}

	valid := flags & runtimeFlagMask
	r.flagMu.Lock()
	r.runtime |= valid
	r.flagMu.Unlock()
	return r
}

// Disable clears the given runtime flags, with the same invalid-bit policy
// as Enable.
func (r *Registry) Disable(flags uint64) *Registry {
	if invalid := flags &^ runtimeFlagMask; invalid != 0 {
		r.log.Warn("ignoring unknown runtime flag bits",
			zap.Uint64("bits", invalid))
	}

	valid := flags & runtimeFlagMask
	r.flagMu.Lock()
	r.runtime &^= valid
	r.flagMu.Unlock()
	return r
}

// HasFlag reports whether every bit of flag is set in the runtime flags.
func (r *Registry) HasFlag(flag uint64) bool {
	r.flagMu.RLock()
	defer r.flagMu.RUnlock()
	return r.runtime&flag == flag
}

// RuntimeFlags returns the current runtime flag bits.
func (r *Registry) RuntimeFlags() uint64 {
	r.flagMu.RLock()
	defer r.flagMu.RUnlock()
	return r.runtime
}

// StartupFlags returns the flags the registry was constructed with.
// They never change, so no synchronization is involved.
func (r *Registry) StartupFlags() uint64 {
	return r.startup
}
