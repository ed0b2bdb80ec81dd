package catalog

// Lookup is the result of a fail-soft reference query. Either Data is
// live warehouse data (Ok path), or the underlying lookup failed and
// Data is the empty default with Reason saying what went wrong
// (Degraded path). Tests assert on the path taken instead of guessing
// from an empty slice.
type Lookup[T any] struct {
	Data     T      `json:"data"`
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Ok wraps live data.
func Ok[T any](data T) Lookup[T] {
	return Lookup[T]{Data: data}
}

// Degraded wraps the empty default with the failure reason.
func Degraded[T any](empty T, reason string) Lookup[T] {
	return Lookup[T]{Data: empty, Degraded: true, Reason: reason}
}
