package scheduler

import (
	"github.com/jellevandenhooff/weft/internal/engine"
	"github.com/jellevandenhooff/weft/internal/xorshift"
)

// UniformState carries Uniform's PRNG. The state (not a closure capture)
// holds the mutable generator, keeping the scheduler itself a stateless,
// reusable value.
type UniformState struct {
	rng *xorshift.Source
}

// InitUniform builds the initial state for Uniform, seeded with seed.
func InitUniform(seed uint64) UniformState {
	return UniformState{rng: xorshift.New(seed)}
}

// Uniform picks uniformly at random among the runnable threads.
func Uniform() engine.Scheduler[UniformState] {
	return engine.SchedulerFunc[UniformState](func(state UniformState, _ *engine.LastDecision, runnable []engine.RunnableThread) (engine.ThreadID, UniformState) {
		idx := state.rng.Intn(len(runnable))
		return runnable[idx].Thread, state
	})
}
