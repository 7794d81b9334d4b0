package weft

import "github.com/jellevandenhooff/weft/internal/engine"

// Var is a type-safe handle onto a CVar: a single-slot, multi-waiter
// synchronized variable. The zero value is not a valid Var; obtain one from
// NewVar.
type Var[T any] struct {
	id CVarID
}

// ID exposes the underlying CVarID, e.g. to build a ResourceID for
// KnowsAbout/Forgets.
func (v Var[T]) ID() CVarID { return v.id }

// NewVar creates a fresh, empty CVar.
func NewVar[T any]() Program[Var[T]] {
	return func(k func(Var[T]) engine.Action) engine.Action {
		return engine.New{K: func(id CVarID) engine.Action { return k(Var[T]{id: id}) }}
	}
}

// Put fills v, blocking if it is already full.
func (v Var[T]) Put(x T) Program[Unit] {
	return func(k func(Unit) engine.Action) engine.Action {
		return engine.Put{V: v.id, X: x, K: func() engine.Action { return k(Unit{}) }}
	}
}

// TryPut is Put's non-blocking sibling.
func (v Var[T]) TryPut(x T) Program[bool] {
	return func(k func(bool) engine.Action) engine.Action {
		return engine.TryPut{V: v.id, X: x, K: k}
	}
}

// Take empties v, blocking until it is full.
func (v Var[T]) Take() Program[T] {
	return func(k func(T) engine.Action) engine.Action {
		return engine.Take{V: v.id, K: func(val engine.Value) engine.Action { return k(val.(T)) }}
	}
}

// TryResult is the outcome of a non-blocking CVar operation: Value is only
// meaningful when OK is true.
type TryResult[T any] struct {
	Value T
	OK    bool
}

// TryTake is Take's non-blocking sibling.
func (v Var[T]) TryTake() Program[TryResult[T]] {
	return func(k func(TryResult[T]) engine.Action) engine.Action {
		return engine.TryTake{V: v.id, K: func(val engine.Value, ok bool) engine.Action {
			var t T
			if ok {
				t = val.(T)
			}
			return k(TryResult[T]{Value: t, OK: ok})
		}}
	}
}

// Read observes v without emptying it, blocking until it is full.
func (v Var[T]) Read() Program[T] {
	return func(k func(T) engine.Action) engine.Action {
		return engine.Read{V: v.id, K: func(val engine.Value) engine.Action { return k(val.(T)) }}
	}
}
