package scheduler

import "github.com/jellevandenhooff/weft/internal/engine"

// SequenceState tracks how far a Sequence scheduler has replayed.
type SequenceState struct {
	idx int
}

// Sequence replays a fixed decision list recorded from a previous run. Once
// exhausted it returns a ThreadID that cannot be in the runnable set,
// which the driver rejects with ErrInternalError rather than silently
// picking something the recorded trace never chose.
func Sequence(decisions []engine.ThreadID) engine.Scheduler[SequenceState] {
	return engine.SchedulerFunc[SequenceState](func(state SequenceState, _ *engine.LastDecision, runnable []engine.RunnableThread) (engine.ThreadID, SequenceState) {
		if state.idx >= len(decisions) {
			return engine.ThreadID(-1), state
		}
		return decisions[state.idx], SequenceState{idx: state.idx + 1}
	})
}
