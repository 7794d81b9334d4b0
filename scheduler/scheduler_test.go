package scheduler_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/jellevandenhooff/weft/internal/engine"
	"github.com/jellevandenhooff/weft/scheduler"
)

func runnable(ids ...engine.ThreadID) []engine.RunnableThread {
	out := make([]engine.RunnableThread, len(ids))
	for i, id := range ids {
		out[i] = engine.RunnableThread{Thread: id}
	}
	return out
}

func TestRoundRobinPicksLeastIDThenWraps(t *testing.T) {
	sched := scheduler.RoundRobin()
	state := scheduler.RoundRobinState{}

	chosen, state := sched.Schedule(state, nil, runnable(0, 1, 2))
	if chosen != 0 {
		t.Fatalf("got %d, want 0", chosen)
	}
	chosen, state = sched.Schedule(state, nil, runnable(0, 1, 2))
	if chosen != 1 {
		t.Fatalf("got %d, want 1", chosen)
	}
	chosen, state = sched.Schedule(state, nil, runnable(0, 2))
	if chosen != 2 {
		t.Fatalf("got %d, want 2", chosen)
	}
	chosen, _ = sched.Schedule(state, nil, runnable(0, 2))
	if chosen != 0 {
		t.Fatalf("got %d, want 0 after wraparound", chosen)
	}
}

func TestSequenceReplaysThenRejects(t *testing.T) {
	sched := scheduler.Sequence([]engine.ThreadID{2, 0, 1})
	state := scheduler.SequenceState{}

	for _, want := range []engine.ThreadID{2, 0, 1} {
		var chosen engine.ThreadID
		chosen, state = sched.Schedule(state, nil, runnable(0, 1, 2))
		if chosen != want {
			t.Fatalf("got %d, want %d", chosen, want)
		}
	}

	chosen, _ := sched.Schedule(state, nil, runnable(0, 1, 2))
	for _, id := range []engine.ThreadID{0, 1, 2} {
		if chosen == id {
			t.Fatalf("exhausted Sequence returned a runnable id %d instead of an unrunnable sentinel", chosen)
		}
	}
}

func TestUniformDeterministicForSameSeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		n := rapid.IntRange(1, 8).Draw(t, "n")

		ids := make([]engine.ThreadID, n)
		for i := range ids {
			ids[i] = engine.ThreadID(i)
		}

		run := func() []engine.ThreadID {
			sched := scheduler.Uniform()
			state := scheduler.InitUniform(seed)
			var picks []engine.ThreadID
			for i := 0; i < 10; i++ {
				var chosen engine.ThreadID
				chosen, state = sched.Schedule(state, nil, runnable(ids...))
				picks = append(picks, chosen)
			}
			return picks
		}

		a, b := run(), run()
		if len(a) != len(b) {
			t.Fatalf("length mismatch")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("run diverged at step %d: %v vs %v", i, a, b)
			}
		}
	})
}
