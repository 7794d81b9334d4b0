package engine

// CVar is a single-slot, multi-waiter synchronized variable. Unlike a Go
// channel's sudog queue (see gosimruntime's waitq, which this is modeled
// after), a put into a previously-empty CVar does not hand the value to one
// waiter and requeue the rest: it wakes every blocked reader and every
// blocked taker at once and lets the scheduler decide who actually runs
// next. This is a deliberate replacement of FIFO single-wakeup so the
// exploration layer can enumerate wakeup orders.
//
// Blocking is modeled by retry: a thread that cannot complete its operation
// is marked Blocked and its continuation is left pointing at the very same
// action. When the scheduler later picks it again the driver re-attempts the
// operation from scratch; either the resource state has since changed and it
// now completes, or it blocks again and re-enqueues itself.
type CVar struct {
	ID   CVarID
	slot Value
	full bool

	blockedTakers  []ThreadID
	blockedPutters []ThreadID
	blockedReaders []ThreadID
}

func newCVar(id CVarID) *CVar {
	return &CVar{ID: id}
}

// woken is the set of thread IDs a CVar operation unblocked, recorded
// verbatim on the resulting trace entry.
type woken []ThreadID

func removeThread(ids []ThreadID, tid ThreadID) []ThreadID {
	for i, id := range ids {
		if id == tid {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// put fills an empty slot, or — if takers/readers are already queued — hands
// the value to all of them at once. If the slot is full it blocks the caller.
func (c *CVar) put(tid ThreadID, x Value) (blocked bool, wokenIDs woken) {
	if c.full {
		c.blockedPutters = append(c.blockedPutters, tid)
		return true, nil
	}

	c.slot = x
	c.full = true

	var wk woken
	wk = append(wk, c.blockedReaders...)
	c.blockedReaders = nil
	wk = append(wk, c.blockedTakers...)
	c.blockedTakers = nil
	return false, wk
}

// tryPut is put's non-blocking sibling: it never enqueues the caller.
func (c *CVar) tryPut(x Value) (ok bool, wokenIDs woken) {
	if c.full {
		return false, nil
	}
	c.slot = x
	c.full = true
	var wk woken
	wk = append(wk, c.blockedReaders...)
	c.blockedReaders = nil
	wk = append(wk, c.blockedTakers...)
	c.blockedTakers = nil
	return true, wk
}

// take empties a full slot and wakes every blocked putter; only whichever
// woken putter the scheduler runs first will actually refill the slot, and
// the rest re-block when they retry.
func (c *CVar) take(tid ThreadID) (val Value, ok bool, wokenIDs woken) {
	if !c.full {
		c.blockedTakers = append(c.blockedTakers, tid)
		return nil, false, nil
	}

	val = c.slot
	c.slot = nil
	c.full = false

	wk := woken(append([]ThreadID(nil), c.blockedPutters...))
	c.blockedPutters = nil
	return val, true, wk
}

func (c *CVar) tryTake() (val Value, ok bool, wokenIDs woken) {
	if !c.full {
		return nil, false, nil
	}
	val = c.slot
	c.slot = nil
	c.full = false

	wk := woken(append([]ThreadID(nil), c.blockedPutters...))
	c.blockedPutters = nil
	return val, true, wk
}

// read observes the value without emptying the slot. A reader blocked on an
// empty CVar is woken (along with every taker) the next time a put fills it.
func (c *CVar) read(tid ThreadID) (val Value, ok bool) {
	if c.full {
		return c.slot, true
	}
	c.blockedReaders = append(c.blockedReaders, tid)
	return nil, false
}

func (c *CVar) unblock(tid ThreadID) {
	c.blockedTakers = removeThread(c.blockedTakers, tid)
	c.blockedPutters = removeThread(c.blockedPutters, tid)
	c.blockedReaders = removeThread(c.blockedReaders, tid)
}

func (c *CVar) hasWaiters() bool {
	return len(c.blockedTakers) > 0 || len(c.blockedPutters) > 0 || len(c.blockedReaders) > 0
}
