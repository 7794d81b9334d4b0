// Command weftrun runs the "Ping" scenario — new_empty_cvar >>= \v -> fork
// (put v 42) >> take v — under the RoundRobin reference scheduler and
// prints its trace. It takes no flags; it exists to give the engine a
// runnable example, not to be a general harness.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jellevandenhooff/weft"
	"github.com/jellevandenhooff/weft/internal/tracelog"
	"github.com/jellevandenhooff/weft/scheduler"
)

func ping() weft.Program[int] {
	return weft.Bind(weft.NewVar[int](), func(v weft.Var[int]) weft.Program[int] {
		return weft.Bind(weft.Fork(v.Put(42)), func(weft.ThreadID) weft.Program[int] {
			return v.Take()
		})
	})
}

func main() {
	logger := tracelog.New(os.Stdout, slog.LevelDebug)

	result := weft.Run(scheduler.RoundRobin(), scheduler.RoundRobinState{}, ping(), weft.Config{
		Logger: logger,
	})

	if result.Failure != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", result.Failure)
		os.Exit(1)
	}
	fmt.Printf("result: %d\n", result.Value)
}
