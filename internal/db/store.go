package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxease/internal/domain"
	"taxease/internal/xerrors"

	"gorm.io/gorm" // GORM ORM library
)

// LedgerStore is the MySQL-backed implementation of wallet.Store.
//
// Creation races are caught by the composite unique index on
// (user_id, financial_year, section); updates and deletes are optimistic
// compare-and-swaps on the version column. Requires a *gorm.DB opened
// with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore wraps a gorm connection in the wallet store contract
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Get loads one ledger by primary key
func (s *LedgerStore) Get(ctx context.Context, id uint) (*domain.SectionLedger, error) {
	var ledger domain.SectionLedger
	if err := s.db.WithContext(ctx).First(&ledger, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("section")
		}
		return nil, err
	}
	return &ledger, nil
}

// FindByUserYear returns all of a taxpayer's ledgers for a year, ordered
// by section
func (s *LedgerStore) FindByUserYear(ctx context.Context, userID uint, year string) ([]*domain.SectionLedger, error) {
	var ledgers []*domain.SectionLedger
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND financial_year = ?", userID, year).
		Order("section asc").
		Find(&ledgers).Error
	if err != nil {
		return nil, err
	}
	return ledgers, nil
}

// FindByKey loads the single ledger for the uniqueness triple
func (s *LedgerStore) FindByKey(ctx context.Context, userID uint, year string, section domain.Section) (*domain.SectionLedger, error) {
	var ledger domain.SectionLedger
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND financial_year = ? AND section = ?", userID, year, section).
		First(&ledger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("section")
		}
		return nil, err
	}
	return &ledger, nil
}

// Save persists the ledger: an insert guarded by the unique triple for
// new ledgers, a version compare-and-swap for existing ones. Either way
// the whole aggregate lands in one row write.
func (s *LedgerStore) Save(ctx context.Context, ledger *domain.SectionLedger) error {
	if ledger.ID == 0 {
		if err := s.db.WithContext(ctx).Create(ledger).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return xerrors.Conflict(ledgerRef(ledger))
			}
			return err
		}
		return nil
	}

	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&domain.SectionLedger{}).
		Where("id = ? AND version = ?", ledger.ID, ledger.Version).
		Updates(map[string]any{
			"slots":        ledger.Slots,
			"version":      ledger.Version + 1,
			"last_updated": now,
		})
	if res.Error != nil {
		return res.Error
	}
	// Zero rows means the stored version moved underneath us.
	if res.RowsAffected == 0 {
		return xerrors.Conflict(ledgerRef(ledger))
	}
	ledger.Version++
	ledger.LastUpdated = now
	return nil
}

// Delete removes the ledger, guarded by its version so a concurrent
// mutation is never silently discarded
func (s *LedgerStore) Delete(ctx context.Context, ledger *domain.SectionLedger) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND version = ?", ledger.ID, ledger.Version).
		Delete(&domain.SectionLedger{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return xerrors.Conflict(ledgerRef(ledger))
	}
	return nil
}

// ledgerRef renders the ledger key for conflict errors
func ledgerRef(l *domain.SectionLedger) string {
	return fmt.Sprintf("user:%d:year:%s:section:%s", l.UserID, l.FinancialYear, l.Section)
}
