// Package async provides a bounded-parallel task runner.
//
// It is used where independent work items may run concurrently but the
// caller needs results in submission order and a cap on in-flight work,
// such as probing many endpoints without self-inflicted load.
package async

import "context"

// Results holds per-task outcomes in submission order.
type Results[T any] []T

// Map runs fn over every item with at most workers goroutines in flight
// and returns one result per item, in input order. Map itself never
// fails; fn is expected to fold errors into its result type.
func Map[In, Out any](ctx context.Context, items []In, workers int, fn func(context.Context, In) Out) Results[Out] {
	out := make([]Out, len(items))
	if len(items) == 0 {
		return out
	}
	if workers <= 0 || workers > len(items) {
		workers = len(items)
	}

	sem := make(chan struct{}, workers)
	done := make(chan struct{}, len(items))

	for i := range items {
		sem <- struct{}{}
		go func(i int) {
			defer func() {
				<-sem
				done <- struct{}{}
			}()
			out[i] = fn(ctx, items[i])
		}(i)
	}

	for range items {
		<-done
	}
	return out
}
