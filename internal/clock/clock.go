// Package clock provides the engine's injected time source. Every
// timestamp the matching core records on orders and trades comes from a
// Clock value rather than from time.Now(), so tests and replay can be
// deterministic.
package clock

import "time"

// Clock returns the current time as a nanosecond counter. Implementations
// must be monotonic; the engine only ever uses the value for the
// informational Order.CreatedAt and Trade.CreatedAt fields, never for
// ordering decisions.
type Clock func() uint64

// Monotonic returns a Clock that starts at the wall-clock time of the call
// (Unix nanoseconds) and advances with Go's monotonic clock reading, so it
// never steps backwards when the wall clock is adjusted.
func Monotonic() Clock {
	start := time.Now()
	base := uint64(start.UnixNano())
	return func() uint64 {
		return base + uint64(time.Since(start))
	}
}

// Fixed returns a Clock that always reports t, for deterministic tests.
func Fixed(t uint64) Clock {
	return func() uint64 {
		return t
	}
}
