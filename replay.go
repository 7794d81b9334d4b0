package weft

import "golang.org/x/sync/errgroup"

// Replay fans program out across one independent run per (scheduler,
// initial state) pair, driving them concurrently. Each run owns a disjoint
// engine world with no shared state, so this is safe however many pairs are
// given; a build lower than a few hundred won't even make a dent in
// GOMAXPROCS.
func Replay[A any, S any](scheds []Scheduler[S], initStates []S, program Program[A], cfg Config) ([]RunResult[A, S], error) {
	results := make([]RunResult[A, S], len(scheds))

	var g errgroup.Group
	for i := range scheds {
		i := i
		g.Go(func() error {
			results[i] = Run(scheds[i], initStates[i], program, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
