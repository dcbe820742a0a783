package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"taxease/internal/domain"
	"taxease/internal/xerrors"
)

// memStore is an in-memory Store with the same optimistic-concurrency
// semantics as the MySQL implementation: unique triple on create, version
// compare-and-swap on update and delete. Ledgers are deep-copied on every
// boundary crossing so callers can never mutate stored state in place.
type memStore struct {
	mu      sync.Mutex
	nextID  uint
	ledgers map[uint]*domain.SectionLedger
}

func newMemStore() *memStore {
	return &memStore{ledgers: make(map[uint]*domain.SectionLedger)}
}

func cloneLedger(l *domain.SectionLedger) *domain.SectionLedger {
	c := *l
	c.Slots = append(domain.SlotList{}, l.Slots...)
	return &c
}

func (m *memStore) Get(_ context.Context, id uint) (*domain.SectionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.ledgers[id]; ok {
		return cloneLedger(l), nil
	}
	return nil, xerrors.NotFound("section")
}

func (m *memStore) FindByUserYear(_ context.Context, userID uint, year string) ([]*domain.SectionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SectionLedger
	for _, l := range m.ledgers {
		if l.UserID == userID && l.FinancialYear == year {
			out = append(out, cloneLedger(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out, nil
}

func (m *memStore) FindByKey(_ context.Context, userID uint, year string, section domain.Section) (*domain.SectionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.ledgers {
		if l.UserID == userID && l.FinancialYear == year && l.Section == section {
			return cloneLedger(l), nil
		}
	}
	return nil, xerrors.NotFound("section")
}

func (m *memStore) Save(_ context.Context, ledger *domain.SectionLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ledger.ID == 0 {
		// Creation races on the uniqueness triple.
		for _, l := range m.ledgers {
			if l.UserID == ledger.UserID && l.FinancialYear == ledger.FinancialYear && l.Section == ledger.Section {
				return xerrors.Conflict("create")
			}
		}
		m.nextID++
		ledger.ID = m.nextID
		ledger.LastUpdated = time.Now()
		m.ledgers[ledger.ID] = cloneLedger(ledger)
		return nil
	}
	existing, ok := m.ledgers[ledger.ID]
	if !ok || existing.Version != ledger.Version {
		return xerrors.Conflict("update")
	}
	ledger.Version++
	ledger.LastUpdated = time.Now()
	m.ledgers[ledger.ID] = cloneLedger(ledger)
	return nil
}

func (m *memStore) Delete(_ context.Context, ledger *domain.SectionLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.ledgers[ledger.ID]
	if !ok || existing.Version != ledger.Version {
		return xerrors.Conflict("delete")
	}
	delete(m.ledgers, ledger.ID)
	return nil
}

// conflictStore wraps memStore but fails every write with a conflict, for
// exercising the service's retry exhaustion path.
type conflictStore struct {
	*memStore
}

func (c *conflictStore) Save(context.Context, *domain.SectionLedger) error {
	return xerrors.Conflict("forced")
}
