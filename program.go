package weft

import "github.com/jellevandenhooff/weft/internal/engine"

// Unit stands in for the absence of a useful result, the way engine.Stop's
// caller-supplied Result does for a Program that returns nothing.
type Unit = struct{}

// ThreadID, CVarID, CRefID and MaskState are re-exported from the engine so
// callers never need to import internal/engine directly.
type (
	ThreadID  = engine.ThreadID
	CVarID    = engine.CVarID
	CRefID    = engine.CRefID
	MaskState = engine.MaskState
)

const (
	Unmasked              = engine.Unmasked
	MaskedInterruptible   = engine.MaskedInterruptible
	MaskedUninterruptible = engine.MaskedUninterruptible
)

// Program[A] is a suspended computation that, given a continuation expecting
// an A, produces the engine.Action to hand to the driver next. It mirrors a
// free monad over engine.Action with closures standing in for the
// continuation representation.
type Program[A any] func(k func(A) engine.Action) engine.Action

// Return lifts a pure value into Program without performing any action.
func Return[A any](a A) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return k(a)
	}
}

// Bind sequences p and then f, threading p's result into f.
func Bind[A, B any](p Program[A], f func(A) Program[B]) Program[B] {
	return func(k func(B) engine.Action) engine.Action {
		return p(func(a A) engine.Action {
			return f(a)(k)
		})
	}
}

// Then sequences p, discards its result, and runs next.
func Then[A, B any](p Program[A], next Program[B]) Program[B] {
	return Bind(p, func(A) Program[B] { return next })
}

// MyThreadID returns the identity of the calling thread.
func MyThreadID() Program[ThreadID] {
	return func(k func(ThreadID) engine.Action) engine.Action {
		return engine.MyThreadID{K: k}
	}
}

// Fork starts child running concurrently and returns its ThreadID
// immediately; child runs until it returns a Unit-valued Program, at which
// point the forked thread stops.
func Fork(child Program[Unit]) Program[ThreadID] {
	return func(k func(ThreadID) engine.Action) engine.Action {
		return engine.Fork{
			Child: child(func(Unit) engine.Action { return engine.Stop{} }),
			K:     k,
		}
	}
}

// Lift runs a host-side pure function and returns its result.
func Lift[A any](f func() A) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return engine.Lift{Effect: func() engine.Action { return k(f()) }}
	}
}

// KnowsAbout and Forgets toggle acquaintance annotations consumed only by
// the (out of scope) exploration layer; they are no-ops to the driver
// beyond bookkeeping the acquainted set on the thread record.
func KnowsAbout(id engine.ResourceID) Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.KnowsAbout{ID: id, K: func() engine.Action { return k(Unit{}) }}
	}
}

func Forgets(id engine.ResourceID) Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.Forgets{ID: id, K: func() engine.Action { return k(Unit{}) }}
	}
}

// AllKnown is a scheduler hint that every resource the thread will ever
// touch has already been announced via KnowsAbout.
func AllKnown() Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.AllKnown{K: func() engine.Action { return k(Unit{}) }}
	}
}

// NoTest runs body to completion as a single opaque driver step. Only Lift,
// ReadRef, and ModRef are permitted inside it; Fork or any blocking
// primitive fails the run with FailureInNoTest.
func NoTest[A any](body Program[A]) Program[A] {
	return func(k func(A) engine.Action) engine.Action {
		return engine.NoTest{
			Body: body(func(a A) engine.Action { return engine.Stop{Result: a} }),
			K:    func(v engine.Value) engine.Action { return k(v.(A)) },
		}
	}
}

// Spawn starts child concurrently and returns a Var holding its eventual
// result, per the external-interfaces definition: new_empty_cvar; fork (p
// >>= put_cvar v); return v.
func Spawn[A any](child Program[A]) Program[Var[A]] {
	return Bind(NewVar[A](), func(v Var[A]) Program[Var[A]] {
		return Bind(Fork(Bind(child, func(a A) Program[Unit] { return v.Put(a) })), func(ThreadID) Program[Var[A]] {
			return Return(v)
		})
	})
}
