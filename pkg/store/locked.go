package store

import (
	"context"

	"github.com/dadas-io/dadas/pkg/model"
)

// Locker serializes work on a single record id.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type locked struct {
	Client
	locker Locker
}

// Locked wraps c so that updates and deletes of the same record never overlap.
// Lock failures are reported as *Error like any other store failure.
func Locked(c Client, l Locker) Client {
	return &locked{Client: c, locker: l}
}

func (l *locked) Update(ctx context.Context, id string, fields model.VPSFields) error {
	unlock, err := l.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return Wrap("update", id, err)
	}
	defer unlock()

	return l.Client.Update(ctx, id, fields)
}

func (l *locked) Delete(ctx context.Context, id string) error {
	unlock, err := l.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return Wrap("delete", id, err)
	}
	defer unlock()

	return l.Client.Delete(ctx, id)
}

func lockKey(id string) string {
	return Collection + ":" + id
}
