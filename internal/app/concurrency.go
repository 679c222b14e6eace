package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is what one of the fanned-out calls returned.
type Outcome[T any] struct {
	Value T
	Err   error
}

// FanOut runs every call with at most limit in flight and returns their
// outcomes in call order. A failed call never cancels its siblings; calls that
// have not started when ctx ends report ctx.Err().
func FanOut[T any](ctx context.Context, limit int, calls ...func(context.Context) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], len(calls))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))

	for i, call := range calls {
		g.Go(func() error {
			if ctx.Err() != nil {
				out[i].Err = ctx.Err()
				return nil
			}

			out[i].Value, out[i].Err = call(ctx)

			return nil
		})
	}

	_ = g.Wait()

	return out
}
