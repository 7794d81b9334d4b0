package engine

// CRef is a shared mutable cell. It never blocks: readRef and modRef always
// complete in the same driver step they were issued in. Under the baseline
// sequential-consistency memory model a ReadRef observes the most recently
// written value in global step order, which falls out for free here because
// the driver serializes every step through a single goroutine.
type CRef struct {
	ID    CRefID
	value Value
}

func newCRef(id CRefID, init Value) *CRef {
	return &CRef{ID: id, value: init}
}

func (r *CRef) readRef() Value {
	return r.value
}

// modRef applies f atomically in one step, storing the first component and
// returning the second.
func (r *CRef) modRef(f func(Value) (Value, Value)) Value {
	next, result := f(r.value)
	r.value = next
	return result
}
