package provider

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachOrdered runs fn for every index in [0,n) with at most limit calls in
// flight and returns the results in index order. With limit 1 the calls run
// one after another in index order. The first error cancels the remaining
// calls and is returned.
func forEachOrdered[V any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (V, error)) ([]V, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]V, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			v, err := fn(gctx, i)
			if err != nil {
				return err
			}

			results[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
