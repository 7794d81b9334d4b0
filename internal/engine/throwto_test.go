package engine

import "testing"

// newTestWorld builds a world with only a placeholder thread 0 registered
// (never stepped in these tests); each test then adds its own target and
// sender threads with the mask/status it controls directly, used to probe
// ThrowTo's delivery rules without having to drive a full Run to
// completion (a literal "forever" masked loop, as spec.md's S6 describes,
// never reaches a runnable-empty state and so cannot be observed by running
// it to completion in a unit test).
func newTestWorld() *world {
	w := newWorld(Stop{})
	return w
}

// TestThrowToBlocksUnderMaskedUninterruptible covers invariant 6: a target
// masked uninterruptibly never receives the exception, and the sender
// blocks instead.
func TestThrowToBlocksUnderMaskedUninterruptible(t *testing.T) {
	w := newTestWorld()
	target := &thread{id: 10, status: Runnable, mask: MaskedUninterruptible, acquainted: map[ResourceID]struct{}{}}
	w.addThread(target)
	sender := &thread{id: 11, status: Runnable, mask: Unmasked, acquainted: map[ResourceID]struct{}{}}
	w.addThread(sender)

	boom := errThrowToTest{}
	action, err := stepThrowTo(w, sender, ThrowTo{Tid: target.id, Exc: boom, K: func() Action { return Stop{} }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != KindBlockedThrowTo {
		t.Fatalf("got kind %v, want KindBlockedThrowTo", action.Kind)
	}
	if sender.status != Blocked || sender.blockedOn != OnThrowToOf {
		t.Fatalf("sender not blocked on throwTo: status=%v reason=%v", sender.status, sender.blockedOn)
	}
	if target.pendingException != nil {
		t.Fatalf("target received exception while MaskedUninterruptible")
	}
}

// TestThrowToDeliversToUnmasked covers the Unmasked delivery rule.
func TestThrowToDeliversToUnmasked(t *testing.T) {
	w := newTestWorld()
	target := &thread{id: 10, status: Runnable, mask: Unmasked, acquainted: map[ResourceID]struct{}{}}
	w.addThread(target)
	sender := &thread{id: 11, status: Runnable, mask: Unmasked, acquainted: map[ResourceID]struct{}{}}
	w.addThread(sender)

	boom := errThrowToTest{}
	action, err := stepThrowTo(w, sender, ThrowTo{Tid: target.id, Exc: boom, K: func() Action { return Stop{} }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != KindThrowTo {
		t.Fatalf("got kind %v, want KindThrowTo", action.Kind)
	}
	if sender.status == Blocked {
		t.Fatalf("sender should not block delivering to an Unmasked target")
	}
	if target.pendingException != boom {
		t.Fatalf("target did not receive the exception")
	}
}

// TestThrowToDeliversToMaskedInterruptibleBlocked covers the
// MaskedInterruptible-and-Blocked delivery rule, and that it wakes the
// target out of its blocking wait.
func TestThrowToDeliversToMaskedInterruptibleBlocked(t *testing.T) {
	w := newTestWorld()
	c := w.newCVar()
	target := &thread{id: 10, status: Blocked, blockedOn: OnTakeOf, blockedTarget: int(c.ID), mask: MaskedInterruptible, acquainted: map[ResourceID]struct{}{}}
	w.addThread(target)
	c.blockedTakers = append(c.blockedTakers, target.id)
	sender := &thread{id: 11, status: Runnable, mask: Unmasked, acquainted: map[ResourceID]struct{}{}}
	w.addThread(sender)

	boom := errThrowToTest{}
	action, err := stepThrowTo(w, sender, ThrowTo{Tid: target.id, Exc: boom, K: func() Action { return Stop{} }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != KindThrowTo {
		t.Fatalf("got kind %v, want KindThrowTo", action.Kind)
	}
	if target.status != Runnable {
		t.Fatalf("target not woken: status=%v", target.status)
	}
	if target.pendingException != boom {
		t.Fatalf("target did not receive the exception")
	}
	if c.hasWaiters() {
		t.Fatalf("target still registered as a CVar waiter after being interrupted")
	}
}

// TestWakeThrowToWaitersRetriesBlockedSenders covers the reverse-wake path:
// once a target becomes deliverable, every sender blocked on ThrowTo to it
// is made runnable again so it retries.
func TestWakeThrowToWaitersRetriesBlockedSenders(t *testing.T) {
	w := newTestWorld()
	target := &thread{id: 10, status: Runnable, mask: Unmasked, acquainted: map[ResourceID]struct{}{}}
	w.addThread(target)
	sender := &thread{id: 11, status: Blocked, blockedOn: OnThrowToOf, blockedTarget: int(target.id), acquainted: map[ResourceID]struct{}{}}
	w.addThread(sender)

	w.wakeThrowToWaiters(target.id)

	if sender.status != Runnable {
		t.Fatalf("sender not woken: status=%v", sender.status)
	}
}

type errThrowToTest struct{}

func (errThrowToTest) Error() string { return "test throwTo exception" }
