package engine

// ActionKind tags the primitive that a ThreadAction (what actually ran) or a
// Lookahead (what a runnable thread would do next) refers to. The same tag
// space serves both: a Lookahead is a Will-prefixed reading of the same
// kind, one step deep, computed without executing anything.
type ActionKind int

const (
	KindFork ActionKind = iota
	KindMyThreadID
	KindPut
	KindBlockedPut
	KindTryPut
	KindRead
	KindBlockedRead
	KindTake
	KindBlockedTake
	KindTryTake
	KindReadRef
	KindModRef
	KindNew
	KindNewRef
	KindLift
	KindAtom
	KindThrow
	KindThrowTo
	KindBlockedThrowTo
	KindCatching
	KindPopCatching
	KindMasking
	KindResetMask
	KindNoTest
	KindKnowsAbout
	KindForgets
	KindAllKnown
	KindStop
)

func (k ActionKind) String() string {
	names := [...]string{
		"Fork", "MyThreadID", "Put", "BlockedPut", "TryPut", "Read", "BlockedRead",
		"Take", "BlockedTake", "TryTake", "ReadRef", "ModRef", "New", "NewRef",
		"Lift", "Atom", "Throw", "ThrowTo", "BlockedThrowTo", "Catching",
		"PopCatching", "Masking", "ResetMask", "NoTest", "KnowsAbout", "Forgets",
		"AllKnown", "Stop",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "ActionKind(?)"
	}
	return names[k]
}

// ThreadAction is the record of the one action a thread actually executed in
// a driver step.
type ThreadAction struct {
	Kind  ActionKind
	CVar  CVarID
	CRef  CRefID
	Child ThreadID // Fork
	Other ThreadID // ThrowTo target
	Bool  bool     // TryPut/TryTake success
	Woken []ThreadID
}

// Lookahead is a one-step, side-effect-free preview of what a runnable
// thread would do next. It never carries the outcome of try/variant
// operations (those are only known by executing them), only the resource
// being operated on.
type Lookahead struct {
	Kind  ActionKind
	CVar  CVarID
	CRef  CRefID
	Child ThreadID
	Other ThreadID
}

// DecisionKind classifies a scheduler's choice against the previous step's.
type DecisionKind int

const (
	Start DecisionKind = iota
	Continue
	SwitchTo
)

func (d DecisionKind) String() string {
	switch d {
	case Start:
		return "Start"
	case Continue:
		return "Continue"
	case SwitchTo:
		return "SwitchTo"
	default:
		return "DecisionKind(?)"
	}
}

// Decision is a labelled scheduler choice.
type Decision struct {
	Kind   DecisionKind
	Thread ThreadID
}

// Alternative is one runnable thread the scheduler did not pick: the
// Decision it would have produced had it been chosen instead, alongside its
// lookahead (per §6, trace entries carry "[(Decision, Lookahead)]").
type Alternative struct {
	Decision  Decision
	Lookahead Lookahead
}

// TraceEntry is what the driver records for every scheduler invocation.
type TraceEntry struct {
	Step         int
	Decision     Decision
	Alternatives []Alternative
	Action       ThreadAction
}

// Trace is the full ordered log of a run.
type Trace []TraceEntry
