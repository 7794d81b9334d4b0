package engine

import "errors"

// Failure values are the run-level outcomes the driver can return. They are
// never thrown through the in-program exception plane (Throw/ThrowTo); they
// surface only as Run's return value, mirroring gosimruntime's constErr
// sentinels (ErrPaniced, ErrAborted, ErrMainReturned, ...).
var (
	ErrInternalError      = errors.New("internal error: scheduler returned a non-runnable thread")
	ErrDeadlock           = errors.New("deadlock: every thread is blocked")
	ErrSTMDeadlock        = errors.New("deadlock: every thread is blocked on an STM retry")
	ErrUncaughtException  = errors.New("uncaught exception on thread 0")
	ErrFailureInNoTest    = errors.New("failure inside a NoTest sub-computation")
)
