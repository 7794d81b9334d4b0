package weft

import "github.com/jellevandenhooff/weft/internal/engine"

// Transaction is a minimal STM attempt: run once against current CRef
// state, reporting whether it committed. The engine treats an uncommitted
// Transaction like a blocked Take — the thread retries it verbatim next
// time it is scheduled, woken by the next Put/Take/ModRef anywhere in the
// world — so most transactions are written as "read the refs I need,
// decide, and report ok=false to ask for a retry". The engine, not
// Transaction, owns the TxVarID stamped on a blocked retry (allocated in
// internal/engine's step when an Atom does not commit), so Transaction
// carries no identity of its own.
//
// STM internals beyond this are intentionally unspecified; Transaction is
// the full sub-language this module implements.
type Transaction[T any] struct {
	run func() (T, bool)
}

// NewTransaction wraps attempt as a Transaction.
func NewTransaction[T any](attempt func() (T, bool)) Transaction[T] {
	return Transaction[T]{run: attempt}
}

func (t Transaction[T]) Run() (engine.Value, bool) {
	v, ok := t.run()
	return v, ok
}

// Atom executes tx as a single atomic step, blocking (and retrying on the
// next schedule) until it commits.
func Atom[T any](tx Transaction[T]) Program[T] {
	return func(k func(T) engine.Action) engine.Action {
		return engine.Atom{Tx: tx, K: func(val engine.Value) engine.Action { return k(val.(T)) }}
	}
}
