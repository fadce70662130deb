package controllers

import (
	"context"
	"pocketblog/metrics"
	"pocketblog/models"
	"sync"

	"go.uber.org/zap"
)

// saver writes collections one at a time in the order they were enqueued.
// Every payload is complete before it is queued, so later writes never depend
// on earlier ones having finished.
type saver struct {
	save    func(context.Context, models.Collection) error
	logger  *zap.Logger
	onError func(error)

	mu       sync.Mutex
	queue    []models.Collection
	pending  int
	idle     chan struct{}
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
}

func newSaver(save func(context.Context, models.Collection) error, logger *zap.Logger, onError func(error)) *saver {
	idle := make(chan struct{})
	close(idle)
	s := &saver{
		save:    save,
		logger:  logger,
		onError: onError,
		idle:    idle,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *saver) enqueue(c models.Collection) {
	s.mu.Lock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.queue = append(s.queue, c)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.wake:
		case <-s.stop:
			s.drain()
			return
		}
		s.drain()
	}
}

func (s *saver) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if err := s.save(context.Background(), next); err != nil {
			metrics.StoreSaveFailures.Inc()
			s.logger.Error("failed to save posts", zap.Int("posts", len(next)), zap.Error(err))
			if s.onError != nil {
				s.onError(err)
			}
		} else {
			metrics.StoreSaves.Inc()
			s.logger.Debug("saved posts", zap.Int("posts", len(next)))
		}

		s.mu.Lock()
		s.pending--
		if s.pending == 0 {
			close(s.idle)
		}
		s.mu.Unlock()
	}
}

// flush waits until every save queued so far has been attempted.
func (s *saver) flush(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the worker.
func (s *saver) close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
