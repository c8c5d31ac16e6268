// Package lock serializes mutations of a single record. Local keeps the locks in
// process memory; Redis shares them between replicas.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultTTL           = 30 * time.Second
	DefaultTimeout       = 5 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
)

var ErrTimeout = errors.New("timed out waiting for record lock")

type Options struct {
	// TTL bounds how long a Redis lock survives a crashed holder.
	TTL time.Duration
	// Timeout bounds how long Lock waits for a busy key.
	Timeout time.Duration
	// RetryInterval is the Redis polling interval while the key is busy.
	RetryInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
	return o
}

type slot struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process lock keyed by string. Slots are dropped once nobody
// holds or waits for them.
type Local struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

func NewLocal(opts Options) *Local {
	opts = opts.withDefaults()
	return &Local{
		timeout: opts.Timeout,
		slots:   make(map[string]*slot),
	}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
	case <-timer.C:
		l.release(key, s)
		return nil, ErrTimeout
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.release(key, s)
		})
	}, nil
}

func (l *Local) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// size reports the number of live slots.
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
