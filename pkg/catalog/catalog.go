// Package catalog provides the read-only product lookup used by the intake
// core. Products are fetched ahead of time and kept in an in-memory snapshot,
// so a lookup never waits on the network.
package catalog

import (
	"context"
	"fmt"
	"intake/pkg/domain"
	"sync/atomic"
	"time"
)

// Source loads the products a snapshot is built from.
type Source interface {
	// ActiveProducts returns every product currently on sale.
	ActiveProducts(ctx context.Context) ([]domain.CatalogEntry, error)
}

type snapshot struct {
	byCode   map[domain.ScanCode]domain.CatalogEntry
	loadedAt time.Time
}

// Memory is an in-memory catalog keyed by scan code. Lookups read an
// immutable snapshot; Replace swaps the whole snapshot atomically, so readers
// never need a lock.
type Memory struct {
	current atomic.Pointer[snapshot]
}

// NewMemory creates a catalog holding the given entries.
func NewMemory(entries ...domain.CatalogEntry) *Memory {
	m := &Memory{}
	m.Replace(entries)

	return m
}

// Replace swaps the snapshot for one built from entries and returns how many
// entries are reachable by scan code. Inactive entries and entries without a
// scan code are left out.
func (m *Memory) Replace(entries []domain.CatalogEntry) int {
	byCode := make(map[domain.ScanCode]domain.CatalogEntry, len(entries))
	for _, e := range entries {
		if !e.Active || !e.HasScanCode() {
			continue
		}
		if _, dup := byCode[e.ScanCode]; dup {
			// storage keeps scan codes unique; keep the first one if it ever doesn't
			continue
		}
		byCode[e.ScanCode] = e
	}

	m.current.Store(&snapshot{byCode: byCode, loadedAt: time.Now()})

	return len(byCode)
}

// Refresh reloads the snapshot from src. The previous snapshot is kept when
// loading fails.
func (m *Memory) Refresh(ctx context.Context, src Source) (int, error) {
	entries, err := src.ActiveProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load active products: %w", err)
	}

	return m.Replace(entries), nil
}

// LookupByScanCode returns the active entry whose scan code equals code exactly.
func (m *Memory) LookupByScanCode(code domain.ScanCode) (domain.CatalogEntry, bool) {
	s := m.current.Load()
	if s == nil {
		return domain.CatalogEntry{}, false
	}
	e, ok := s.byCode[code]

	return e, ok
}

// Len returns the number of entries reachable by scan code.
func (m *Memory) Len() int {
	s := m.current.Load()
	if s == nil {
		return 0
	}

	return len(s.byCode)
}

// LoadedAt returns when the current snapshot was built.
func (m *Memory) LoadedAt() time.Time {
	s := m.current.Load()
	if s == nil {
		return time.Time{}
	}

	return s.loadedAt
}
