package engine

import "errors"

// Recoverable submission/query errors (spec.md §7). Callers check these
// with errors.Is; none of them corrupt engine state.
var (
	// ErrDuplicateId is returned by TryInsert when the order's id is
	// already present in the index.
	ErrDuplicateId = errors.New("engine: duplicate order id")

	// ErrInvalidOrder is returned by TryInsert when amount == 0 or
	// remaining != amount at submission.
	ErrInvalidOrder = errors.New("engine: invalid order")

	// ErrUnsupportedKind is returned by TryInsert for any CurrentKind
	// other than Limit — this revision only matches and rests limit
	// orders.
	ErrUnsupportedKind = errors.New("engine: unsupported order kind")

	// ErrNotFound is returned by Cancel for an unknown id. Get reports an
	// unknown id through its boolean result instead.
	ErrNotFound = errors.New("engine: order not found")
)

// FatalError marks an invariant violation: a defect in the engine itself,
// never a consequence of caller input. Per spec.md §7, these must
// terminate the engine rather than risk a corrupted book — Engine logs
// them at zerolog's Fatal level, which exits the process after writing
// the event.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return "engine: fatal invariant violation: " + e.Reason
}
