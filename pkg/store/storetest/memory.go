// Package storetest provides an in-memory store.Client for tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/dadas-io/dadas/pkg/store"
)

var ErrInjected = errors.New("injected failure")

// Memory keeps records in a map. Setting a Fail* flag makes the matching
// operation return a store error without touching the records.
type Memory struct {
	mu      sync.Mutex
	records map[string]model.VPS
	seq     int
	clock   time.Time

	FailList   bool
	FailInsert bool
	FailUpdate bool
	FailDelete bool
	// FailListAfter makes List fail once it has succeeded this many times.
	// Zero disables it.
	FailListAfter int

	lists int

	// Calls counts every write attempt, failed or not.
	Calls int
}

func NewMemory(records ...model.VPS) *Memory {
	m := &Memory{
		records: map[string]model.VPS{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, r := range records {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = m.tick()
		}
		m.records[r.ID] = r
	}
	return m
}

func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *Memory) List(_ context.Context) ([]model.VPS, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailList || (m.FailListAfter > 0 && m.lists >= m.FailListAfter) {
		return nil, store.Wrap("list", "", ErrInjected)
	}
	m.lists++

	out := make([]model.VPS, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Insert(_ context.Context, fields model.VPSFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailInsert {
		return store.Wrap("insert", "", ErrInjected)
	}

	m.seq++
	id := fmt.Sprintf("mem-%d", m.seq)
	m.records[id] = model.VPS{ID: id, VPSFields: fields, CreatedAt: m.tick()}
	return nil
}

func (m *Memory) Update(_ context.Context, id string, fields model.VPSFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailUpdate {
		return store.Wrap("update", id, ErrInjected)
	}

	r, ok := m.records[id]
	if !ok {
		return store.Wrap("update", id, store.ErrNotFound)
	}
	r.VPSFields = fields
	m.records[id] = r
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.FailDelete {
		return store.Wrap("delete", id, ErrInjected)
	}

	if _, ok := m.records[id]; !ok {
		return store.Wrap("delete", id, store.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

// Get returns a stored record directly, bypassing failure injection.
func (m *Memory) Get(id string) (model.VPS, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
