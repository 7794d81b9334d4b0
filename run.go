package weft

import (
	"bytes"
	"log/slog"

	"github.com/jellevandenhooff/weft/internal/engine"
)

// Trace and Failure sentinels are re-exported so callers never import
// internal/engine directly.
type Trace = engine.Trace

var (
	ErrInternalError     = engine.ErrInternalError
	ErrDeadlock          = engine.ErrDeadlock
	ErrSTMDeadlock       = engine.ErrSTMDeadlock
	ErrUncaughtException = engine.ErrUncaughtException
	ErrFailureInNoTest   = engine.ErrFailureInNoTest
)

// Scheduler, RunnableThread, LastDecision and SchedulerFunc are re-exported
// so reference and custom schedulers need only import package weft.
type (
	Scheduler[S any]    = engine.Scheduler[S]
	SchedulerFunc[S any] = engine.SchedulerFunc[S]
	RunnableThread      = engine.RunnableThread
	LastDecision        = engine.LastDecision
)

// RunResult is the outcome of driving a Program to completion: either a
// typed Value (Failure == nil) or a run-level Failure, alongside the final
// scheduler state, the full trace, and — if Config.CaptureLog was set — the
// captured log.
type RunResult[A any, S any] struct {
	Value      A
	SchedState S
	Trace      Trace
	Failure    error
	Log        []byte
}

// Run drives program forward under sched, starting at initState, and
// returns its outcome.
func Run[A any, S any](sched Scheduler[S], initState S, program Program[A], cfg Config) RunResult[A, S] {
	root := program(func(a A) engine.Action { return engine.Stop{Result: a} })
	res := engine.Run(sched, initState, root)

	var value A
	if res.Failure == nil {
		if v, ok := res.Value.(A); ok {
			value = v
		}
	}

	result := RunResult[A, S]{
		Value:      value,
		SchedState: res.SchedState,
		Trace:      res.Trace,
		Failure:    res.Failure,
	}

	if cfg.Logger != nil {
		var buf bytes.Buffer
		logger := cfg.Logger
		if cfg.CaptureLog {
			logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		logTrace(logger, res.Trace)
		if cfg.CaptureLog {
			result.Log = buf.Bytes()
		}
	}

	return result
}

func logTrace(logger *slog.Logger, trace Trace) {
	for _, entry := range trace {
		attrs := []any{
			"step", entry.Step,
			"thread", int(entry.Decision.Thread),
			"decision", entry.Decision.Kind.String(),
		}
		attrs = append(attrs, actionAttrs(entry.Action)...)
		logger.Debug(entry.Action.Kind.String(), attrs...)
	}
}

// actionAttrs picks the resource fields relevant to a's Kind out of
// ThreadAction's shared struct, so the log only shows the identifiers that
// kind actually touched instead of every zero-valued field.
func actionAttrs(a engine.ThreadAction) []any {
	var attrs []any
	switch a.Kind {
	case engine.KindPut, engine.KindBlockedPut, engine.KindTryPut,
		engine.KindRead, engine.KindBlockedRead,
		engine.KindTake, engine.KindBlockedTake, engine.KindTryTake:
		attrs = append(attrs, "cvar", int(a.CVar))
	case engine.KindReadRef, engine.KindModRef:
		attrs = append(attrs, "cref", int(a.CRef))
	case engine.KindFork:
		attrs = append(attrs, "child", int(a.Child))
	case engine.KindThrowTo, engine.KindBlockedThrowTo:
		attrs = append(attrs, "target", int(a.Other))
	}
	if a.Kind == engine.KindTryPut || a.Kind == engine.KindTryTake {
		attrs = append(attrs, "ok", a.Bool)
	}
	if len(a.Woken) > 0 {
		attrs = append(attrs, "woken", a.Woken)
	}
	return attrs
}
