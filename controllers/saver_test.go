package controllers

import (
	"context"
	"errors"
	"pocketblog/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaver_OrderAndFlush(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	release := make(chan struct{})
	s := newSaver(func(_ context.Context, c models.Collection) error {
		<-release
		mu.Lock()
		got = append(got, len(c))
		mu.Unlock()
		return nil
	}, zap.NewNop(), nil)

	for i := 1; i <= 4; i++ {
		s.enqueue(make(models.Collection, i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, s.flush(ctx), context.DeadlineExceeded)
	cancel()

	close(release)
	require.NoError(t, s.flush(context.Background()))
	mu.Lock()
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	mu.Unlock()

	require.NoError(t, s.close(context.Background()))
	require.NoError(t, s.close(context.Background()))
}

func TestSaver_FlushWhenIdle(t *testing.T) {
	s := newSaver(func(context.Context, models.Collection) error { return nil }, zap.NewNop(), nil)
	defer func() { _ = s.close(context.Background()) }()

	assert.NoError(t, s.flush(context.Background()))
}

func TestSaver_ReportsErrorsAndContinues(t *testing.T) {
	var (
		mu     sync.Mutex
		errs   []error
		called int
	)
	fail := errors.New("write failed")
	s := newSaver(func(context.Context, models.Collection) error {
		mu.Lock()
		defer mu.Unlock()
		called++
		if called == 1 {
			return fail
		}
		return nil
	}, zap.NewNop(), func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	defer func() { _ = s.close(context.Background()) }()

	s.enqueue(models.Collection{})
	s.enqueue(models.Collection{})
	require.NoError(t, s.flush(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, called)
	assert.Equal(t, []error{fail}, errs)
}
