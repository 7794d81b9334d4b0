package engine

import "testing"

// leastIDState is the state for a deterministic "always pick the lowest
// runnable ThreadID" scheduler, used by every scenario below exactly as
// spec.md's worked examples assume.
type leastIDState struct{}

func leastIDScheduler() Scheduler[leastIDState] {
	return SchedulerFunc[leastIDState](func(state leastIDState, _ *LastDecision, runnable []RunnableThread) (ThreadID, leastIDState) {
		min := runnable[0].Thread
		for _, rt := range runnable {
			if rt.Thread < min {
				min = rt.Thread
			}
		}
		return min, state
	})
}

func runLeastID(program Action) RunResult[leastIDState] {
	return Run(leastIDScheduler(), leastIDState{}, program)
}

// TestPing is scenario S1: new_empty_cvar >>= \v -> fork (put v 42) >> take v.
func TestPing(t *testing.T) {
	program := New{K: func(v CVarID) Action {
		return Fork{
			Child: Put{V: v, X: 42, K: func() Action { return Stop{} }},
			K: func(ThreadID) Action {
				return Take{V: v, K: func(val Value) Action { return Stop{Result: val} }}
			},
		}
	}}

	res := runLeastID(program)
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if res.Value != 42 {
		t.Fatalf("got %v, want 42", res.Value)
	}
}

// TestDeadlock is scenario S2: new_empty_cvar >>= take_cvar.
func TestDeadlock(t *testing.T) {
	program := New{K: func(v CVarID) Action {
		return Take{V: v, K: func(Value) Action { return Stop{} }}
	}}

	res := runLeastID(program)
	if res.Failure != ErrDeadlock {
		t.Fatalf("got failure %v, want ErrDeadlock", res.Failure)
	}
}

// TestTryPutSuccessThenFail is scenario S3.
func TestTryPutSuccessThenFail(t *testing.T) {
	type pair struct{ a, b bool }

	program := New{K: func(v CVarID) Action {
		return TryPut{V: v, X: 1, K: func(a bool) Action {
			return TryPut{V: v, X: 2, K: func(b bool) Action {
				return Stop{Result: pair{a, b}}
			}}
		}}
	}}

	res := runLeastID(program)
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	got := res.Value.(pair)
	if got != (pair{true, false}) {
		t.Fatalf("got %+v, want {true false}", got)
	}
}

// TestReadDoesNotEmpty is scenario S4.
func TestReadDoesNotEmpty(t *testing.T) {
	type pair struct{ x, y Value }

	program := New{K: func(v CVarID) Action {
		return Fork{
			Child: Put{V: v, X: 7, K: func() Action { return Stop{} }},
			K: func(ThreadID) Action {
				return Read{V: v, K: func(x Value) Action {
					return Read{V: v, K: func(y Value) Action {
						return Stop{Result: pair{x, y}}
					}}
				}}
			},
		}
	}}

	res := runLeastID(program)
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	got := res.Value.(pair)
	if got != (pair{7, 7}) {
		t.Fatalf("got %+v, want {7 7}", got)
	}
}

// TestModRefAtomic is scenario S5: two forks each incrementing a shared
// CRef; the result is always 2 regardless of interleaving because ModRef
// is a single atomic step.
func TestModRefAtomic(t *testing.T) {
	incr := func(n Value) (Value, Value) { return n.(int) + 1, struct{}{} }

	program := NewRef{Init: 0, K: func(r CRefID) Action {
		return New{K: func(done1 CVarID) Action {
			return New{K: func(done2 CVarID) Action {
				return Fork{
					Child: ModRef{R: r, F: incr, K: func(Value) Action {
						return Put{V: done1, X: struct{}{}, K: func() Action { return Stop{} }}
					}},
					K: func(ThreadID) Action {
						return Fork{
							Child: ModRef{R: r, F: incr, K: func(Value) Action {
								return Put{V: done2, X: struct{}{}, K: func() Action { return Stop{} }}
							}},
							K: func(ThreadID) Action {
								return Take{V: done1, K: func(Value) Action {
									return Take{V: done2, K: func(Value) Action {
										return ReadRef{R: r, K: func(val Value) Action { return Stop{Result: val} }}
									}}
								}}
							},
						}
					},
				}
			}}
		}}
	}}

	res := runLeastID(program)
	if res.Failure != nil {
		t.Fatalf("unexpected failure: %v", res.Failure)
	}
	if res.Value != 2 {
		t.Fatalf("got %v, want 2", res.Value)
	}
}
