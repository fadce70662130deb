package controllers

import (
	"context"
	"sync"
)

// Task is a one-shot asynchronous result: pending until Settle is called once,
// settled afterwards. Subscribers wait on Done.
type Task[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func NewTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

// Go runs fn in a goroutine and settles the task with its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := NewTask[T]()
	go func() {
		v, err := fn(ctx)
		t.Settle(v, err)
	}()
	return t
}

// Settle records the result. Only the first call has any effect.
func (t *Task[T]) Settle(v T, err error) {
	t.once.Do(func() {
		t.value, t.err = v, err
		close(t.done)
	})
}

func (t *Task[T]) Done() <-chan struct{} { return t.done }

func (t *Task[T]) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task settles or ctx ends.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
