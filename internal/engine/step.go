package engine

// step executes exactly one action from t's continuation, mutates the
// world in place, and returns the ThreadAction recorded on the trace. Only
// this function (and the NoTest helper it calls) ever mutates CVar or CRef
// state or a thread's continuation; the only other thread-state change the
// driver makes is Run waking ThrowTo senders right after this dispatch.
func step(w *world, tid ThreadID) (ThreadAction, error) {
	t := w.thread(tid)

	if t.pendingException != nil && t.mask == Unmasked {
		return deliverException(t), nil
	}

	switch a := t.continuation.(type) {
	case Fork:
		child := w.ids.freshThread()
		w.addThread(newThread(child, a.Child))
		t.continuation = a.K(child)
		return ThreadAction{Kind: KindFork, Child: child}, nil

	case MyThreadID:
		t.continuation = a.K(tid)
		return ThreadAction{Kind: KindMyThreadID}, nil

	case New:
		c := w.newCVar()
		t.continuation = a.K(c.ID)
		return ThreadAction{Kind: KindNew, CVar: c.ID}, nil

	case NewRef:
		r := w.newCRef(a.Init)
		t.continuation = a.K(r.ID)
		return ThreadAction{Kind: KindNewRef, CRef: r.ID}, nil

	case Put:
		return stepPut(w, t, a)

	case TryPut:
		c := w.cvars[a.V]
		ok, wk := c.tryPut(a.X)
		for _, id := range wk {
			w.wake(id)
		}
		if ok {
			w.wakeSTMRetryWaiters()
		}
		t.continuation = a.K(ok)
		return ThreadAction{Kind: KindTryPut, CVar: a.V, Bool: ok, Woken: wk}, nil

	case Read:
		return stepRead(w, t, a)

	case Take:
		return stepTake(w, t, a)

	case TryTake:
		c := w.cvars[a.V]
		val, ok, wk := c.tryTake()
		for _, id := range wk {
			w.wake(id)
		}
		if ok {
			w.wakeSTMRetryWaiters()
		}
		t.continuation = a.K(val, ok)
		return ThreadAction{Kind: KindTryTake, CVar: a.V, Bool: ok, Woken: wk}, nil

	case ReadRef:
		r := w.crefs[a.R]
		t.continuation = a.K(r.readRef())
		return ThreadAction{Kind: KindReadRef, CRef: a.R}, nil

	case ModRef:
		r := w.crefs[a.R]
		result := r.modRef(a.F)
		w.wakeSTMRetryWaiters()
		t.continuation = a.K(result)
		return ThreadAction{Kind: KindModRef, CRef: a.R}, nil

	case Lift:
		t.continuation = a.Effect()
		return ThreadAction{Kind: KindLift}, nil

	case Atom:
		result, committed := a.Tx.Run()
		if !committed {
			t.block(OnRetry, int(w.ids.freshTx()))
			return ThreadAction{Kind: KindAtom}, nil
		}
		t.continuation = a.K(result)
		return ThreadAction{Kind: KindAtom}, nil

	case Throw:
		return throwInThread(t, a.Exc), nil

	case ThrowTo:
		return stepThrowTo(w, t, a)

	case Catching:
		t.handlerStack = append(t.handlerStack, catchFrame{handler: a.Handler, maskAtInstall: t.mask})
		t.continuation = a.Body
		return ThreadAction{Kind: KindCatching}, nil

	case PopCatching:
		if n := len(t.handlerStack); n > 0 {
			t.handlerStack = t.handlerStack[:n-1]
		}
		t.continuation = a.K()
		return ThreadAction{Kind: KindPopCatching}, nil

	case Masking:
		prior := t.mask
		t.mask = a.NewState
		t.continuation = a.Body(Restore{outer: prior, inner: a.NewState})
		if a.NewState == Unmasked {
			w.wakeThrowToWaiters(tid)
		}
		return ThreadAction{Kind: KindMasking}, nil

	case ResetMask:
		t.mask = a.State
		t.continuation = a.K()
		if a.State == Unmasked {
			w.wakeThrowToWaiters(tid)
		}
		return ThreadAction{Kind: KindResetMask}, nil

	case NoTest:
		result, err := w.runNoTestBody(a.Body)
		if err != nil {
			return ThreadAction{Kind: KindNoTest}, err
		}
		t.continuation = a.K(result)
		return ThreadAction{Kind: KindNoTest}, nil

	case KnowsAbout:
		t.acquainted[a.ID] = struct{}{}
		t.continuation = a.K()
		return ThreadAction{Kind: KindKnowsAbout}, nil

	case Forgets:
		delete(t.acquainted, a.ID)
		t.continuation = a.K()
		return ThreadAction{Kind: KindForgets}, nil

	case AllKnown:
		t.continuation = a.K()
		return ThreadAction{Kind: KindAllKnown}, nil

	case Stop:
		t.terminate(Stopped, a.Result, nil)
		return ThreadAction{Kind: KindStop}, nil

	default:
		panic("engine: unknown action type in step")
	}
}

func stepPut(w *world, t *thread, a Put) (ThreadAction, error) {
	c := w.cvars[a.V]

	if c.full && t.mask == MaskedInterruptible && t.pendingException != nil {
		return deliverException(t), nil
	}

	blocked, wk := c.put(t.id, a.X)
	if blocked {
		t.block(OnPutOf, int(a.V))
		if t.mask == MaskedInterruptible {
			w.wakeThrowToWaiters(t.id)
		}
		return ThreadAction{Kind: KindBlockedPut, CVar: a.V}, nil
	}
	for _, id := range wk {
		w.wake(id)
	}
	w.wakeSTMRetryWaiters()
	t.continuation = a.K()
	return ThreadAction{Kind: KindPut, CVar: a.V, Woken: wk}, nil
}

func stepTake(w *world, t *thread, a Take) (ThreadAction, error) {
	c := w.cvars[a.V]

	if !c.full && t.mask == MaskedInterruptible && t.pendingException != nil {
		return deliverException(t), nil
	}

	val, ok, wk := c.take(t.id)
	if !ok {
		t.block(OnTakeOf, int(a.V))
		if t.mask == MaskedInterruptible {
			w.wakeThrowToWaiters(t.id)
		}
		return ThreadAction{Kind: KindBlockedTake, CVar: a.V}, nil
	}
	for _, id := range wk {
		w.wake(id)
	}
	w.wakeSTMRetryWaiters()
	t.continuation = a.K(val)
	return ThreadAction{Kind: KindTake, CVar: a.V, Woken: wk}, nil
}

func stepRead(w *world, t *thread, a Read) (ThreadAction, error) {
	c := w.cvars[a.V]

	if !c.full && t.mask == MaskedInterruptible && t.pendingException != nil {
		return deliverException(t), nil
	}

	val, ok := c.read(t.id)
	if !ok {
		t.block(OnReadOf, int(a.V))
		if t.mask == MaskedInterruptible {
			w.wakeThrowToWaiters(t.id)
		}
		return ThreadAction{Kind: KindBlockedRead, CVar: a.V}, nil
	}
	t.continuation = a.K(val)
	return ThreadAction{Kind: KindRead, CVar: a.V}, nil
}

// throwInThread unwinds t's handler stack looking for a matching frame. If
// none matches, t terminates as Killed.
func throwInThread(t *thread, exc error) ThreadAction {
	for len(t.handlerStack) > 0 {
		n := len(t.handlerStack)
		frame := t.handlerStack[n-1]
		t.handlerStack = t.handlerStack[:n-1]
		if frame.handler.Match(exc) {
			t.mask = frame.maskAtInstall
			t.continuation = frame.handler.K(exc)
			return ThreadAction{Kind: KindThrow}
		}
	}
	t.terminate(Killed, nil, exc)
	return ThreadAction{Kind: KindThrow}
}

// deliverException consumes t's pending exception at an interruptible
// point, exactly like a Throw originating from t itself.
func deliverException(t *thread) ThreadAction {
	exc := t.pendingException
	t.pendingException = nil
	return throwInThread(t, exc)
}

func stepThrowTo(w *world, sender *thread, a ThrowTo) (ThreadAction, error) {
	target := w.thread(a.Tid)
	if target == nil || target.status == Terminated {
		// Delivering to a gone thread is a no-op completion, not a block.
		sender.continuation = a.K()
		return ThreadAction{Kind: KindThrowTo, Other: a.Tid}, nil
	}

	deliverable := target.mask == Unmasked || (target.mask == MaskedInterruptible && target.status == Blocked)
	if !deliverable {
		sender.block(OnThrowToOf, int(a.Tid))
		return ThreadAction{Kind: KindBlockedThrowTo, Other: a.Tid}, nil
	}

	if target.status == Blocked {
		unblockFromResource(w, target)
	}
	target.pendingException = a.Exc

	sender.continuation = a.K()
	return ThreadAction{Kind: KindThrowTo, Other: a.Tid}, nil
}

// unblockFromResource removes a Blocked thread from whatever CVar wait
// queue it is sitting in and marks it Runnable, used when an asynchronous
// exception interrupts a blocked take/put/read.
func unblockFromResource(w *world, t *thread) {
	switch t.blockedOn {
	case OnTakeOf, OnPutOf, OnReadOf:
		if c := w.cvars[CVarID(t.blockedTarget)]; c != nil {
			c.unblock(t.id)
		}
	}
	t.unblock()
}

// runNoTestBody executes a NoTest sub-computation to completion within a
// single driver step. Only the pure primitives (Lift, ReadRef, ModRef) are
// permitted inside it: forking or blocking would make the sub-computation
// visible to the scheduler, defeating the "opaque single step" contract, so
// either one fails the whole NoTest with FailureInNoTest.
func (w *world) runNoTestBody(body Action) (Value, error) {
	cur := body
	for {
		switch a := cur.(type) {
		case Stop:
			return a.Result, nil
		case Lift:
			cur = a.Effect()
		case ReadRef:
			r := w.crefs[a.R]
			cur = a.K(r.readRef())
		case ModRef:
			r := w.crefs[a.R]
			cur = a.K(r.modRef(a.F))
			w.wakeSTMRetryWaiters()
		default:
			return nil, ErrFailureInNoTest
		}
	}
}
