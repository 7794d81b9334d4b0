package weft

import "github.com/jellevandenhooff/weft/internal/engine"

// Ref is a type-safe handle onto a CRef: a shared mutable cell whose
// operations never block.
type Ref[T any] struct {
	id CRefID
}

func (r Ref[T]) ID() CRefID { return r.id }

// NewRef creates a fresh cell holding init.
func NewRef[T any](init T) Program[Ref[T]] {
	return func(k func(Ref[T]) engine.Action) engine.Action {
		return engine.NewRef{Init: init, K: func(id CRefID) engine.Action { return k(Ref[T]{id: id}) }}
	}
}

// ReadRef observes the current value.
func (r Ref[T]) ReadRef() Program[T] {
	return func(k func(T) engine.Action) engine.Action {
		return engine.ReadRef{R: r.id, K: func(val engine.Value) engine.Action { return k(val.(T)) }}
	}
}

// ModRef applies f atomically in a single driver step, storing the first
// component it returns and yielding the second. A separate type parameter
// for the result is only expressible as a free function: Go methods cannot
// introduce additional type parameters beyond the receiver's.
func ModRef[T, R any](r Ref[T], f func(T) (T, R)) Program[R] {
	return func(k func(R) engine.Action) engine.Action {
		return engine.ModRef{
			R: r.id,
			F: func(cur engine.Value) (engine.Value, engine.Value) {
				next, result := f(cur.(T))
				return next, result
			},
			K: func(val engine.Value) engine.Action { return k(val.(R)) },
		}
	}
}
