package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dadas-io/dadas/pkg/lock"
	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/dadas-io/dadas/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore tracks how many writes overlap.
type slowStore struct {
	*storetest.Memory
	inFlight int32
	maxSeen  int32
}

func (s *slowStore) Update(ctx context.Context, id string, fields model.VPSFields) error {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		m := atomic.LoadInt32(&s.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&s.maxSeen, m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return s.Memory.Update(ctx, id, fields)
}

func TestLocked_SerializesSameRecord(t *testing.T) {
	slow := &slowStore{Memory: storetest.NewMemory(model.VPS{ID: "a"})}
	c := store.Locked(slow, lock.NewLocal(lock.Options{Timeout: 5 * time.Second}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Update(context.Background(), "a", model.VPSFields{Name: "x"}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&slow.maxSeen))
}

func TestLocked_LockTimeoutIsStoreError(t *testing.T) {
	l := lock.NewLocal(lock.Options{Timeout: 20 * time.Millisecond})
	c := store.Locked(storetest.NewMemory(model.VPS{ID: "a"}), l)

	unlock, err := l.Lock(context.Background(), "vps:a")
	require.NoError(t, err)
	defer unlock()

	err = c.Delete(context.Background(), "a")
	var se *store.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "delete", se.Op)
	assert.ErrorIs(t, err, lock.ErrTimeout)
}

func TestWrap(t *testing.T) {
	assert.NoError(t, store.Wrap("list", "", nil))

	err := store.Wrap("update", "a", store.ErrNotFound)
	assert.True(t, store.IsNotFound(err))
	assert.Equal(t, "store update a: record not found", err.Error())

	assert.Same(t, err, store.Wrap("delete", "b", err))
}
