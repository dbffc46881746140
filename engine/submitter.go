package engine

import (
	"errors"

	"github.com/hupe1980/eventmesh/channel"
	"github.com/hupe1980/eventmesh/core"
	"github.com/hupe1980/eventmesh/logging"
)

// channelSubmitter implements core.Submitter and core.TrySubmitter by sending
// onto the engine's action channel. One instance is bound per strategy so log
// output attributes submissions to their origin.
type channelSubmitter[A any] struct {
	actions  *channel.Channel[A]
	strategy string
	logger   logging.Logger
}

func newChannelSubmitter[A any](actions *channel.Channel[A], strategy string, logger logging.Logger) *channelSubmitter[A] {
	return &channelSubmitter[A]{actions: actions, strategy: strategy, logger: logger}
}

// Submit is fire-and-forget: a send failure is logged and swallowed so the
// strategy is never crashed by a downstream delivery failure.
func (s *channelSubmitter[A]) Submit(action A) {
	if err := s.actions.Send(action); err != nil {
		if errors.Is(err, channel.ErrClosed) {
			s.logger.Warn("action dropped, channel closed", "strategy", s.strategy)
			return
		}
		s.logger.Error("action submission failed", "strategy", s.strategy, "error", err)
	}
}

// SubmitAsync reports the delivery outcome instead of swallowing it.
func (s *channelSubmitter[A]) SubmitAsync(action A) core.SubmitResult {
	if err := s.actions.Send(action); err != nil {
		return core.SubmitResult{Success: false, Err: err}
	}
	return core.SubmitResult{Success: true}
}

// TrySubmit implements core.TrySubmitter.
func (s *channelSubmitter[A]) TrySubmit(action A) bool {
	return s.actions.TrySend(action)
}
