package weft

import "github.com/jellevandenhooff/weft/internal/engine"

// Throw raises exc in the calling thread, unwinding its handler stack. A is
// never produced since control never returns to k; the type parameter only
// lets Throw slot into a Program[A] of whatever shape the caller needs.
func Throw[A any](exc error) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return engine.Throw{Exc: exc}
	}
}

// ThrowTo raises exc asynchronously in thread tid. It blocks the caller
// until tid is at a point where the exception is deliverable (Unmasked, or
// MaskedInterruptible and itself Blocked).
func ThrowTo(tid ThreadID, exc error) Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.ThrowTo{Tid: tid, Exc: exc, K: func() engine.Action { return k(Unit{}) }}
	}
}

// Restore re-establishes the mask state that was active before the
// enclosing Masking, per the mask-safety invariant: a masked body that
// wants to take a blocking action interruptibly applies Restore around it.
type Restore struct {
	r engine.Restore
}

// Apply resets the calling thread's mask to the state captured at Masking
// entry.
func (r Restore) Apply() Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.ResetMask{
			Outer: r.r.Outer(),
			Inner: r.r.Inner(),
			State: r.r.Outer(),
			K:     func() engine.Action { return k(Unit{}) },
		}
	}
}

// Masking runs body under newState, passing it a Restore that re-applies
// the prior mask on demand. The prior mask is also re-established
// automatically once body's Program completes, so a body that never calls
// Restore itself still leaves the thread in its original mask state
// afterward — mirroring a lexically scoped mask rather than a
// fire-and-forget mode switch.
func Masking[A any](newState MaskState, body func(Restore) Program[A]) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return engine.Masking{
			NewState: newState,
			Body: func(r engine.Restore) engine.Action {
				return body(Restore{r: r})(func(a A) engine.Action {
					return engine.ResetMask{
						Outer: r.Outer(),
						Inner: r.Inner(),
						State: r.Outer(),
						K:     func() engine.Action { return k(a) },
					}
				})
			},
		}
	}
}

// Catching installs a handler matching exceptions with match around body. If
// body throws (or a descendant action propagates a Throw) and match
// accepts, handler runs with the exception and its result becomes the
// Program's result; otherwise the exception continues to unwind.
func Catching[A any](match func(error) bool, handler func(error) Program[A], body Program[A]) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return engine.Catching{
			Handler: engine.Handler{
				Match: match,
				K:     func(exc error) engine.Action { return handler(exc)(k) },
			},
			Body: body(func(a A) engine.Action {
				return engine.PopCatching{K: func() engine.Action { return k(a) }}
			}),
		}
	}
}
