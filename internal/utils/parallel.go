package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the settled outcome of one task run by SettleAll.
type Result[T any] struct {
	Value T
	Err   error
}

// SettleAll runs every task concurrently and waits for all of them, whatever
// their outcome. results[i] always belongs to tasks[i].
//
// A failing task never cancels its siblings: the group is created without a
// derived context, so only the caller's ctx can stop in-flight work.
func SettleAll[T any](ctx context.Context, tasks []func(ctx context.Context) (T, error)) []Result[T] {
	if len(tasks) == 0 {
		return []Result[T]{}
	}

	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			value, err := task(ctx)
			results[i] = Result[T]{Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
