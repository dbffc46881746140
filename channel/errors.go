package channel

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when operations are attempted on a closed channel or
// receiver. For a consumer it signals end-of-stream, not a fault.
var ErrClosed = errors.New("channel is closed")

// LagError reports that a receiver fell behind and buffered items were
// evicted. It is surfaced by Receiver.Next when the lag policy is OnLagThrow;
// the receiver keeps operating and subsequent Next calls deliver items again.
type LagError struct {
	// Count is the total number of items evicted from the receiver's buffer
	// since it subscribed.
	Count uint64
}

// Error implements the error interface.
func (e *LagError) Error() string {
	return fmt.Sprintf("channel receiver lagged: %d items dropped", e.Count)
}
