package engine

// world is the interpreter's mutable state for one run. It is created by
// the driver, mutated only by the driver, and dropped at termination;
// nothing here is package-level, so many worlds may run concurrently with
// no shared state (see weft.Replay).
type world struct {
	ids *IDSource

	threads      map[ThreadID]*thread
	threadOrder  []ThreadID // insertion order == ID order, kept for deterministic iteration

	cvars map[CVarID]*CVar
	crefs map[CRefID]*CRef

	trace  Trace
	stepNo int
}

func newWorld(start Action) *world {
	w := &world{
		ids:     newIDSource(),
		threads: make(map[ThreadID]*thread),
		cvars:   make(map[CVarID]*CVar),
		crefs:   make(map[CRefID]*CRef),
	}
	id := w.ids.freshThread()
	w.addThread(newThread(id, start))
	return w
}

func (w *world) addThread(t *thread) {
	w.threads[t.id] = t
	w.threadOrder = append(w.threadOrder, t.id)
}

func (w *world) thread(id ThreadID) *thread {
	return w.threads[id]
}

func (w *world) newCVar() *CVar {
	id := w.ids.freshCVar()
	c := newCVar(id)
	w.cvars[id] = c
	return c
}

func (w *world) newCRef(init Value) *CRef {
	id := w.ids.freshCRef()
	r := newCRef(id, init)
	w.crefs[id] = r
	return r
}

// wake marks a blocked thread runnable. It does not touch the resource's
// own wait queues; callers pop the queue themselves before calling wake.
func (w *world) wake(id ThreadID) {
	if t := w.threads[id]; t != nil && t.status == Blocked {
		t.unblock()
	}
}

// wakePutter is wake with a name that makes call sites read like the CVar
// wake-all policy they implement.
func (w *world) wakePutter(_ CVarID, id ThreadID) {
	w.wake(id)
}

// runnableIDs returns every runnable thread in ID order, which is the only
// order the driver ever iterates threads in: map iteration in Go is
// randomized, and determinism is the entire point of this interpreter.
func (w *world) runnableIDs() []ThreadID {
	var out []ThreadID
	for _, id := range w.threadOrder {
		if t := w.threads[id]; t != nil && t.status == Runnable {
			out = append(out, id)
		}
	}
	return out
}

func (w *world) anyBlocked() bool {
	for _, id := range w.threadOrder {
		if t := w.threads[id]; t != nil && t.status == Blocked {
			return true
		}
	}
	return false
}

// wakeThrowToWaiters wakes every thread blocked sending an asynchronous
// exception to target, used whenever a state transition newly makes target
// deliverable (it becomes Unmasked, or it becomes Blocked while
// MaskedInterruptible) or terminates it. Each woken sender simply retries
// its ThrowTo, since its continuation is still the original action.
func (w *world) wakeThrowToWaiters(target ThreadID) {
	for _, id := range w.threadOrder {
		t := w.threads[id]
		if t != nil && t.status == Blocked && t.blockedOn == OnThrowToOf && ThreadID(t.blockedTarget) == target {
			t.unblock()
		}
	}
}

// wakeSTMRetryWaiters wakes every thread blocked retrying an uncommitted
// Atom. It is called after any primitive that mutates shared state a
// Transaction might read (CVar put/take/tryPut/tryTake, CRef ModRef), since
// Transaction carries no read-set for the driver to check more precisely —
// every such mutation is a candidate to unblock a pending retry, exactly
// like a Put waking every blocked Take.
func (w *world) wakeSTMRetryWaiters() {
	for _, id := range w.threadOrder {
		t := w.threads[id]
		if t != nil && t.status == Blocked && t.blockedOn == OnRetry {
			t.unblock()
		}
	}
}

func (w *world) allBlockedOnSTM() bool {
	sawSTM := false
	for _, id := range w.threadOrder {
		t := w.threads[id]
		if t == nil || t.status == Terminated {
			continue
		}
		if t.status != Blocked || t.blockedOn != OnRetry {
			return false
		}
		sawSTM = true
	}
	return sawSTM
}
