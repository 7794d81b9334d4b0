package engine

// peek translates the head of a thread's continuation into a Lookahead tag.
// It never executes an effect and never mutates world state; it is purely a
// read of the Action value currently sitting at the front of the thread.
func peek(a Action) Lookahead {
	switch v := a.(type) {
	case Fork:
		return Lookahead{Kind: KindFork}
	case MyThreadID:
		return Lookahead{Kind: KindMyThreadID}
	case Put:
		return Lookahead{Kind: KindPut, CVar: v.V}
	case TryPut:
		return Lookahead{Kind: KindTryPut, CVar: v.V}
	case Read:
		return Lookahead{Kind: KindRead, CVar: v.V}
	case Take:
		return Lookahead{Kind: KindTake, CVar: v.V}
	case TryTake:
		return Lookahead{Kind: KindTryTake, CVar: v.V}
	case ReadRef:
		return Lookahead{Kind: KindReadRef, CRef: v.R}
	case ModRef:
		return Lookahead{Kind: KindModRef, CRef: v.R}
	case New:
		return Lookahead{Kind: KindNew}
	case NewRef:
		return Lookahead{Kind: KindNewRef}
	case Lift:
		return Lookahead{Kind: KindLift}
	case Atom:
		return Lookahead{Kind: KindAtom}
	case Throw:
		return Lookahead{Kind: KindThrow}
	case ThrowTo:
		return Lookahead{Kind: KindThrowTo, Other: v.Tid}
	case Catching:
		return Lookahead{Kind: KindCatching}
	case PopCatching:
		return Lookahead{Kind: KindPopCatching}
	case Masking:
		return Lookahead{Kind: KindMasking}
	case ResetMask:
		return Lookahead{Kind: KindResetMask}
	case NoTest:
		return Lookahead{Kind: KindNoTest}
	case KnowsAbout:
		return Lookahead{Kind: KindKnowsAbout}
	case Forgets:
		return Lookahead{Kind: KindForgets}
	case AllKnown:
		return Lookahead{Kind: KindAllKnown}
	case Stop:
		return Lookahead{Kind: KindStop}
	default:
		panic("engine: unknown action type in lookahead")
	}
}

// blockedLookahead is like peek but reports the lookahead a Blocked thread
// would present, keyed on its BlockReason. The driver does not call it: a
// trace entry's Alternatives and the scheduler's runnable set are built from
// peek over runnable threads only.
func blockedLookahead(reason BlockReason, target int) Lookahead {
	switch reason {
	case OnTakeOf:
		return Lookahead{Kind: KindBlockedTake, CVar: CVarID(target)}
	case OnPutOf:
		return Lookahead{Kind: KindBlockedPut, CVar: CVarID(target)}
	case OnReadOf:
		return Lookahead{Kind: KindBlockedRead, CVar: CVarID(target)}
	case OnThrowToOf:
		return Lookahead{Kind: KindBlockedThrowTo, Other: ThreadID(target)}
	default:
		return Lookahead{}
	}
}
