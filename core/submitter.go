package core

// SubmitResult reports the outcome of a SubmitAsync call.
type SubmitResult struct {
	// Success is true when the action was accepted by the action channel.
	Success bool
	// Err holds the delivery failure when Success is false.
	Err error
}

// Submitter is the narrow capability a Strategy uses to hand actions to the
// engine's action channel.
//
// Submit is fire-and-forget: a delivery failure (action channel closed) is
// logged and swallowed so a strategy is never crashed by a downstream
// failure. SubmitAsync reports the outcome instead, for callers that need to
// know.
type Submitter[A any] interface {
	Submit(action A)
	SubmitAsync(action A) SubmitResult
}

// TrySubmitter is an optional Submitter capability: best-effort submission
// that reports acceptance as a boolean and never surfaces an error.
type TrySubmitter[A any] interface {
	TrySubmit(action A) bool
}
