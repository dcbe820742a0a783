// Package wallet implements the deduction wallet: one ledger of
// contribution slots per (taxpayer, financial year, section), with
// statutory limits enforced atomically per key.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"taxease/internal/domain"
	"taxease/internal/xerrors"

	"github.com/sirupsen/logrus"
)

// maxConflictRetries bounds how often a mutation is retried after an
// optimistic-concurrency conflict before the conflict is surfaced.
const maxConflictRetries = 3

// SectionSummary is one section's row in the wallet summary projection
type SectionSummary struct {
	Section   domain.Section `json:"section"`   // Section code
	Invested  float64        `json:"invested"`  // Sum of slot amounts
	Limit     float64        `json:"limit"`     // Statutory cap, 0 = uncapped
	Remaining float64        `json:"remaining"` // Headroom, floored at zero
	Progress  float64        `json:"progress"`  // Invested share of the cap in percent
}

// Summary aggregates all of a taxpayer's sections for one year.
// TotalRemaining sums each section's individually zero-clamped remaining,
// which is not the same as TotalLimit - TotalInvested.
type Summary struct {
	TotalInvested  float64          `json:"totalInvested"`
	TotalLimit     float64          `json:"totalLimit"`
	TotalRemaining float64          `json:"totalRemaining"`
	BySection      []SectionSummary `json:"bySection"`
}

// Service orchestrates ledger lookup, creation and mutation against a
// Store. All limit checks happen against freshly loaded state inside the
// retry loop, so concurrent mutations of the same key can never jointly
// exceed a cap.
type Service struct {
	store Store
}

// NewService builds a wallet service on top of a Store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetWallet returns every ledger for the taxpayer and year, ordered by
// section. Derived totals are computed on demand by the ledger itself.
func (s *Service) GetWallet(ctx context.Context, userID uint, year string) ([]*domain.SectionLedger, error) {
	if year == "" {
		return nil, xerrors.Validation("financial year is required")
	}
	return s.store.FindByUserYear(ctx, userID, year)
}

// AddContribution appends a new slot to the taxpayer's ledger for the
// section, creating the ledger on first use. The limit check and the
// write are serialized per key via the store's optimistic concurrency.
func (s *Service) AddContribution(ctx context.Context, userID uint, year, sectionCode, name string, amount float64) (*domain.SectionLedger, error) {
	if year == "" || name == "" || sectionCode == "" {
		return nil, xerrors.Validation("financial year, section and name are required")
	}
	if amount <= 0 {
		return nil, xerrors.Validation("amount must be greater than 0")
	}
	section, err := domain.ParseSection(sectionCode)
	if err != nil {
		return nil, err
	}

	var result *domain.SectionLedger
	err = s.withRetry(ledgerKey(userID, year, section), func() error {
		ledger, err := s.store.FindByKey(ctx, userID, year, section)
		var notFound *xerrors.NotFoundError
		switch {
		case errors.As(err, &notFound):
			// First contribution to this section: create the ledger with
			// the limit snapshotted from the statutory table.
			ledger = &domain.SectionLedger{
				UserID:        userID,
				FinancialYear: year,
				Section:       section,
				Limit:         SectionLimit(section),
				Slots:         domain.SlotList{},
			}
		case err != nil:
			return err
		}

		newInvested := ledger.Invested() + amount
		if ledger.Limit > 0 && newInvested > ledger.Limit {
			return &xerrors.LimitExceededError{
				Section:   string(section),
				Limit:     ledger.Limit,
				Attempted: newInvested,
			}
		}

		ledger.Slots = append(ledger.Slots, domain.NewContributionSlot(name, amount))
		if err := s.store.Save(ctx, ledger); err != nil {
			return err
		}
		result = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSlot changes a slot's name and/or amount. The amount defaults to
// its current value when not supplied; a failed limit check leaves the
// slot untouched.
func (s *Service) UpdateSlot(ctx context.Context, ledgerID uint, slotID, name string, amount *float64) (*domain.SectionLedger, error) {
	if amount != nil && *amount <= 0 {
		return nil, xerrors.Validation("amount must be greater than 0")
	}

	var result *domain.SectionLedger
	err := s.withRetry(fmt.Sprintf("ledger:%d", ledgerID), func() error {
		ledger, err := s.store.Get(ctx, ledgerID)
		if err != nil {
			return err
		}
		slot := ledger.FindSlot(slotID)
		if slot == nil {
			return xerrors.NotFound("investment slot")
		}

		newAmount := slot.Amount
		if amount != nil {
			newAmount = *amount
		}
		newInvested := ledger.Invested() - slot.Amount + newAmount
		if ledger.Limit > 0 && newInvested > ledger.Limit {
			return &xerrors.LimitExceededError{
				Section:   string(ledger.Section),
				Limit:     ledger.Limit,
				Attempted: newInvested,
			}
		}

		if name != "" {
			slot.Name = name
		}
		slot.Amount = newAmount
		if err := s.store.Save(ctx, ledger); err != nil {
			return err
		}
		result = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSlot removes a slot from its ledger. Removing the last slot
// deletes the ledger entirely; deleted reports which case happened. The
// returned ledger reflects the post-removal state (no longer persisted
// when deleted is true).
func (s *Service) DeleteSlot(ctx context.Context, ledgerID uint, slotID string) (ledger *domain.SectionLedger, deleted bool, err error) {
	err = s.withRetry(fmt.Sprintf("ledger:%d", ledgerID), func() error {
		current, err := s.store.Get(ctx, ledgerID)
		if err != nil {
			return err
		}
		if len(current.Slots) == 0 {
			return xerrors.NotFound("investment slot")
		}
		if !current.RemoveSlot(slotID) {
			return xerrors.NotFound("investment slot")
		}

		// An empty ledger is not a valid persisted state: drop it rather
		// than leaving an empty shell behind.
		if len(current.Slots) == 0 {
			if err := s.store.Delete(ctx, current); err != nil {
				return err
			}
			ledger, deleted = current, true
			return nil
		}

		if err := s.store.Save(ctx, current); err != nil {
			return err
		}
		ledger, deleted = current, false
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return ledger, deleted, nil
}

// GetWalletSummary aggregates every section of the taxpayer's wallet for
// the year into one projection
func (s *Service) GetWalletSummary(ctx context.Context, userID uint, year string) (*Summary, error) {
	if year == "" {
		return nil, xerrors.Validation("financial year is required")
	}
	ledgers, err := s.store.FindByUserYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	summary := &Summary{BySection: make([]SectionSummary, 0, len(ledgers))}
	for _, ledger := range ledgers {
		invested := ledger.Invested()
		summary.TotalInvested += invested
		summary.TotalLimit += ledger.Limit
		summary.TotalRemaining += ledger.Remaining()
		summary.BySection = append(summary.BySection, SectionSummary{
			Section:   ledger.Section,
			Invested:  invested,
			Limit:     ledger.Limit,
			Remaining: ledger.Remaining(),
			Progress:  ledger.Progress(),
		})
	}
	return summary, nil
}

// InitializeWallet creates empty ledgers for the requested sections that
// do not exist yet. Unknown codes are skipped silently, existing ledgers
// are left untouched, and only newly created ledgers are returned; the
// whole operation is idempotent.
func (s *Service) InitializeWallet(ctx context.Context, userID uint, year string, sectionCodes []string) ([]*domain.SectionLedger, error) {
	if year == "" || len(sectionCodes) == 0 {
		return nil, xerrors.Validation("financial year and sections are required")
	}

	created := make([]*domain.SectionLedger, 0, len(sectionCodes))
	for _, code := range sectionCodes {
		section, err := domain.ParseSection(code)
		if err != nil {
			continue // Skip invalid sections silently
		}

		_, err = s.store.FindByKey(ctx, userID, year, section)
		if err == nil {
			continue // Already initialized
		}
		var notFound *xerrors.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}

		ledger := &domain.SectionLedger{
			UserID:        userID,
			FinancialYear: year,
			Section:       section,
			Limit:         SectionLimit(section),
			Slots:         domain.SlotList{},
		}
		if err := s.store.Save(ctx, ledger); err != nil {
			var conflict *xerrors.ConflictError
			if errors.As(err, &conflict) {
				continue // Lost a creation race: the ledger exists now
			}
			return nil, err
		}
		created = append(created, ledger)
	}
	return created, nil
}

// withRetry runs op, retrying a bounded number of times when the store
// reports an optimistic-concurrency conflict. Each attempt reloads state,
// so the caller's intent is re-checked rather than silently dropped; only
// after the budget is exhausted does the conflict surface.
func (s *Service) withRetry(key string, op func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = op()
		var conflict *xerrors.ConflictError
		if !errors.As(err, &conflict) {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"key":     key,
			"attempt": attempt + 1,
		}).Warn("Wallet write conflict, retrying")
	}
	return err
}

// ledgerKey renders the uniqueness triple for logging
func ledgerKey(userID uint, year string, section domain.Section) string {
	return fmt.Sprintf("user:%d:year:%s:section:%s", userID, year, section)
}
