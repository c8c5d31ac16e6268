package health

import (
	"context"
	"sync"
	"time"

	"github.com/dadas-io/dadas/pkg/store"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const DefaultInterval = 30 * time.Second

// Prober periodically lists the store and remembers whether it answered.
type Prober struct {
	client   store.Client
	interval time.Duration
	timeout  time.Duration

	mu       sync.RWMutex
	ready    bool
	lastErr  error
	lastSeen time.Time
	now      func() time.Time
}

func NewProber(c store.Client, interval, timeout time.Duration) *Prober {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Prober{
		client:   c,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Start runs the probe loop until stopCh is closed. The first probe runs
// immediately.
func (p *Prober) Start(stopCh <-chan struct{}) {
	logrus.Infof("starting readiness prober. Probe interval: %v", p.interval)
	wait.JitterUntil(p.Probe, p.interval, .1, true, stopCh)
}

func (p *Prober) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	_, err := p.client.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		if p.ready || p.lastErr == nil {
			logrus.WithError(err).Warn("store probe failed")
		}
		p.ready = false
		p.lastErr = err
		return
	}

	if !p.ready {
		logrus.Info("store probe succeeded")
	}
	p.ready = true
	p.lastErr = nil
	p.lastSeen = p.now()
}

// Status is the outcome of the last probe.
type Status struct {
	Ready    bool      `json:"ready"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func (p *Prober) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := Status{Ready: p.ready, LastSeen: p.lastSeen}
	if p.lastErr != nil {
		s.Error = p.lastErr.Error()
	}
	return s
}

func (p *Prober) Ready() bool {
	return p.Status().Ready
}
