package health

import (
	"testing"
	"time"

	"github.com/dadas-io/dadas/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProber(t *testing.T) {
	mem := storetest.NewMemory()
	p := NewProber(mem, time.Minute, time.Second)

	assert.False(t, p.Ready(), "not ready before the first probe")

	p.Probe()
	assert.True(t, p.Ready())
	assert.Empty(t, p.Status().Error)
	assert.False(t, p.Status().LastSeen.IsZero())

	mem.FailList = true
	p.Probe()
	s := p.Status()
	assert.False(t, s.Ready)
	assert.Contains(t, s.Error, "injected failure")

	mem.FailList = false
	p.Probe()
	assert.True(t, p.Ready())
}

func TestProber_StartStops(t *testing.T) {
	p := NewProber(storetest.NewMemory(), 10*time.Millisecond, 0)
	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		p.Start(stopCh)
		close(done)
	}()

	require.Eventually(t, p.Ready, time.Second, 5*time.Millisecond)
	close(stopCh)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("prober did not stop")
	}
}
