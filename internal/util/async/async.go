// Package async runs independent lookups concurrently and collects their
// results.
package async

import (
	"context"
	"errors"
	"fmt"
)

// Map calls fn for every key concurrently and returns the successful
// results by key. Failures are joined into one error; a failed key is
// absent from the result map.
func Map[K comparable, V any](ctx context.Context, keys []K, fn func(context.Context, K) (V, error)) (map[K]V, error) {
	type result struct {
		key K
		val V
		err error
	}

	results := make(chan result, len(keys))
	for _, key := range keys {
		go func() {
			val, err := fn(ctx, key)
			results <- result{key: key, val: val, err: err}
		}()
	}

	out := make(map[K]V, len(keys))
	var errs []error
	for range len(keys) {
		res := <-results
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", res.key, res.err))
			continue
		}
		out[res.key] = res.val
	}
	return out, errors.Join(errs...)
}
