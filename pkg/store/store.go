// Package store persists the last good dataset so the application keeps
// working when the spreadsheet is unreachable.
//
// Two backends exist: package sqlite keeps a local snapshot file for the
// CLI, package mongo keeps one document per family for shared deployments.
// [Memory] serves tests and --store none.
package store

import (
	"context"
	"sync"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Snapshot keys. They match the keys the browser application stored its
// dataset under, so exported snapshots stay interchangeable.
const (
	KeyFamilies = "florentine_factions_data_v4"
	KeyEvents   = "florentine_factions_events_v2"
)

// Store saves and loads dataset snapshots. Loading a snapshot that was never
// saved returns an empty slice and no error.
type Store interface {
	SaveFamilies(ctx context.Context, families []family.Family) error
	LoadFamilies(ctx context.Context) ([]family.Family, error)
	SaveEvents(ctx context.Context, events []family.HistoricalEvent) error
	LoadEvents(ctx context.Context) ([]family.HistoricalEvent, error)
	Close() error
}

// Memory is an in-process Store.
type Memory struct {
	mu       sync.RWMutex
	families []family.Family
	events   []family.HistoricalEvent
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) SaveFamilies(_ context.Context, fs []family.Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.families = append([]family.Family(nil), fs...)
	return nil
}

func (m *Memory) LoadFamilies(context.Context) ([]family.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]family.Family(nil), m.families...), nil
}

func (m *Memory) SaveEvents(_ context.Context, es []family.HistoricalEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([]family.HistoricalEvent(nil), es...)
	return nil
}

func (m *Memory) LoadEvents(context.Context) ([]family.HistoricalEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]family.HistoricalEvent(nil), m.events...), nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
