package obj

import "errors"

// ErrFrozen is returned by mutators on a frozen object (§3.1, §7 FROZEN).
// The graph package wraps this into a full error-chain cause; obj itself
// has no notion of the thread-local error chain, to keep this package
// dependency-free at the bottom of the layer stack (§2).
var ErrFrozen = errors.New("object is frozen")
