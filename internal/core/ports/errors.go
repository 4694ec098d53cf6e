package ports

import "errors"

// ErrConcurrentModification is returned when a row-level lock on an order
// cannot be acquired without waiting. Callers may retry the whole mutation.
var ErrConcurrentModification = errors.New("concurrent modification")
