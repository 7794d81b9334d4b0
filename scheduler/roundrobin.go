// Package scheduler bundles reference engine.Scheduler implementations:
// RoundRobin, Sequence, and Uniform.
package scheduler

import "github.com/jellevandenhooff/weft/internal/engine"

// RoundRobinState is RoundRobin's only state: the smallest ThreadID its next
// pick is allowed to be.
type RoundRobinState struct {
	floor engine.ThreadID
}

// RoundRobin always picks the lowest runnable ThreadID strictly greater than
// the id it picked last, wrapping around to the smallest runnable id once it
// runs off the top. It rotates through the runnable threads, so it is not an
// "always pick the least ThreadId" policy: with threads 0 and 1 both
// runnable it alternates between them.
func RoundRobin() engine.Scheduler[RoundRobinState] {
	return engine.SchedulerFunc[RoundRobinState](func(state RoundRobinState, _ *engine.LastDecision, runnable []engine.RunnableThread) (engine.ThreadID, RoundRobinState) {
		min := runnable[0].Thread
		var chosen engine.ThreadID
		found := false
		for _, rt := range runnable {
			if rt.Thread < min {
				min = rt.Thread
			}
			if rt.Thread >= state.floor && (!found || rt.Thread < chosen) {
				chosen = rt.Thread
				found = true
			}
		}
		if !found {
			chosen = min
		}
		return chosen, RoundRobinState{floor: chosen + 1}
	})
}
