package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ContributionSlot is one discrete contribution entry within a section
// ledger. Identity is immutable; name and amount may change via update.
type ContributionSlot struct {
	ID      string    `json:"id"`      // Opaque ULID token, fixed at creation
	Name    string    `json:"name"`    // Instrument or payee label
	Amount  float64   `json:"amount"`  // Contributed amount, strictly positive
	AddedAt time.Time `json:"addedAt"` // Timestamp of creation
}

// NewContributionSlot creates a timestamped slot with a fresh ULID
func NewContributionSlot(name string, amount float64) ContributionSlot {
	return ContributionSlot{
		ID:      ulid.Make().String(),
		Name:    name,
		Amount:  amount,
		AddedAt: time.Now().UTC(),
	}
}

// SlotList is the ordered slot collection, persisted as a single JSON
// column so a ledger mutation is always one all-or-nothing row write.
type SlotList []ContributionSlot

// Value serializes the slot list for storage
func (s SlotList) Value() (driver.Value, error) {
	if s == nil {
		s = SlotList{}
	}
	return json.Marshal(s)
}

// Scan deserializes the slot list from storage
func (s *SlotList) Scan(value any) error {
	if value == nil {
		*s = SlotList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported slot list type %T", value)
	}
}

// SectionLedger is the per-(taxpayer, year, section) aggregate owning the
// contribution slots. The triple carries a composite unique index so at
// most one ledger can ever exist per key; Version backs the optimistic
// concurrency check in the store.
type SectionLedger struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;uniqueIndex:uq_ledger_key"`
	FinancialYear string    `gorm:"size:16;not null;uniqueIndex:uq_ledger_key"`
	Section       Section   `gorm:"size:16;not null;uniqueIndex:uq_ledger_key"`
	Limit         float64   `gorm:"column:section_limit;not null"` // Statutory cap, 0 = uncapped; snapshot taken at creation
	Slots         SlotList  `gorm:"type:json"`
	Version       uint      `gorm:"not null;default:0"` // Bumped on every persisted mutation
	CreatedAt     time.Time
	LastUpdated   time.Time `gorm:"autoUpdateTime"`
}

// Invested is the sum of all slot amounts. Always derived from Slots,
// never stored, so it cannot go stale.
func (l *SectionLedger) Invested() float64 {
	var total float64
	for _, slot := range l.Slots {
		total += slot.Amount
	}
	return total
}

// Remaining is the headroom left under the cap, floored at zero
func (l *SectionLedger) Remaining() float64 {
	remaining := l.Limit - l.Invested()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress is the invested share of the cap in percent.
// Uncapped sections always report 0.
func (l *SectionLedger) Progress() float64 {
	if l.Limit <= 0 {
		return 0
	}
	return l.Invested() / l.Limit * 100
}

// FindSlot returns the slot with the given id, or nil
func (l *SectionLedger) FindSlot(slotID string) *ContributionSlot {
	for i := range l.Slots {
		if l.Slots[i].ID == slotID {
			return &l.Slots[i]
		}
	}
	return nil
}

// RemoveSlot deletes the slot with the given id, reporting whether a
// slot was actually removed
func (l *SectionLedger) RemoveSlot(slotID string) bool {
	for i := range l.Slots {
		if l.Slots[i].ID == slotID {
			l.Slots = append(l.Slots[:i], l.Slots[i+1:]...)
			return true
		}
	}
	return false
}

// MarshalJSON serializes the ledger with its derived totals so API
// consumers always see freshly computed values
func (l SectionLedger) MarshalJSON() ([]byte, error) {
	if l.Slots == nil {
		l.Slots = SlotList{}
	}
	return json.Marshal(struct {
		ID            uint      `json:"id"`
		UserID        uint      `json:"userId"`
		FinancialYear string    `json:"financialYear"`
		Section       Section   `json:"section"`
		Limit         float64   `json:"limit"`
		Invested      float64   `json:"invested"`
		Remaining     float64   `json:"remaining"`
		Progress      float64   `json:"progress"`
		Slots         SlotList  `json:"slots"`
		LastUpdated   time.Time `json:"lastUpdated"`
	}{
		ID:            l.ID,
		UserID:        l.UserID,
		FinancialYear: l.FinancialYear,
		Section:       l.Section,
		Limit:         l.Limit,
		Invested:      l.Invested(),
		Remaining:     l.Remaining(),
		Progress:      l.Progress(),
		Slots:         l.Slots,
		LastUpdated:   l.LastUpdated,
	})
}
