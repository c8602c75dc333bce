package tutor

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// lanes serializes work per session id. Waiters are served in arrival
// order; a lane is dropped once nobody holds or waits on it.
type lanes struct {
	mu sync.Mutex
	m  map[string]*lane
}

type lane struct {
	sem  *semaphore.Weighted
	refs int
}

func newLanes() *lanes {
	return &lanes{m: make(map[string]*lane)}
}

// acquire blocks until the lane for id is free or ctx is done.
func (l *lanes) acquire(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	ln, ok := l.m[id]
	if !ok {
		ln = &lane{sem: semaphore.NewWeighted(1)}
		l.m[id] = ln
	}
	ln.refs++
	l.mu.Unlock()

	if err := ln.sem.Acquire(ctx, 1); err != nil {
		l.drop(id, ln)
		return nil, err
	}
	return func() {
		ln.sem.Release(1)
		l.drop(id, ln)
	}, nil
}

func (l *lanes) drop(id string, ln *lane) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ln.refs--
	if ln.refs == 0 {
		delete(l.m, id)
	}
}

func (l *lanes) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
