package batch

import (
	"context"
	"runtime"

	"github.com/smallyu/go-ntkit/internal/exercise"
	"github.com/smallyu/go-ntkit/pkg/ntk"
	"golang.org/x/sync/errgroup"
)

// Summary counts the outcomes of a batch run.
type Summary struct {
	Solved  int
	Failed  int
	Skipped int
}

// Summarize tallies results. A nil entry was never scheduled.
func Summarize(results []*exercise.Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r == nil:
			s.Skipped++
		case r.Err != nil:
			s.Failed++
		default:
			s.Solved++
		}
	}
	return s
}

// Solve runs the exercises on at most workers goroutines (GOMAXPROCS when
// workers <= 0). Results keep the input order. A failing exercise is
// recorded in its Result and does not stop the others; once ctx is done
// no further exercises are started and their entries stay nil.
func Solve(ctx context.Context, exercises []exercise.Exercise, workers int, opts ...ntk.Option) ([]*exercise.Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*exercise.Result, len(exercises))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range exercises {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Per-exercise errors live in the result.
			res, _ := exercise.Solve(exercises[i], opts...)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
