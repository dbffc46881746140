package engine

import "time"

// retryState is the per-task backoff state machine: a consecutive-error
// counter and the current backoff interval, driven by pure transitions so it
// can be tested without timers.
type retryState struct {
	threshold int
	initial   time.Duration
	max       time.Duration

	consecutive int
	interval    time.Duration
}

func newRetryState(threshold int, initial, max time.Duration) retryState {
	return retryState{
		threshold: threshold,
		initial:   initial,
		max:       max,
		interval:  initial,
	}
}

// onSuccess resets the machine to (0, initial).
func (r *retryState) onSuccess() {
	r.consecutive = 0
	r.interval = r.initial
}

// onFailure advances the machine by one failure. Once the consecutive-error
// counter exceeds the threshold, the interval doubles (bounded by max) and
// the returned wait is non-zero.
func (r *retryState) onFailure() (wait time.Duration) {
	r.consecutive++
	if r.consecutive <= r.threshold {
		return 0
	}
	r.interval *= 2
	if r.interval > r.max {
		r.interval = r.max
	}
	return r.interval
}

// critical reports whether the counter exceeded twice the threshold, the
// point at which StopOnCriticalError escalates to a full engine stop.
func (r *retryState) critical() bool {
	return r.consecutive > 2*r.threshold
}
