/*
Package weft contains the main API for interacting with the deterministic
concurrency interpreter. A Program is built from Return, Bind, and a
primitive combinator per action in internal/engine — Fork, CVar/CRef
operations, exceptions, masking — then driven to completion with Run under
a Scheduler from package scheduler (or a custom one).

Every run is deterministic given a scheduler and its initial state: the only
non-determinism the driver ever consults is the Scheduler's Schedule
decision, so running the same Program against the same (Scheduler,
initState) pair always produces the same Trace.
*/
package weft
