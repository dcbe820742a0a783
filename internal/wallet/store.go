package wallet

import (
	"context"

	"taxease/internal/domain"
)

// Store is the narrow persistence contract the wallet service consumes.
// The service does not know how ledgers are stored or transported.
//
// Concurrency semantics the implementation must uphold:
//   - the (UserID, FinancialYear, Section) triple is unique; Save of a new
//     ledger (ID == 0) that collides returns *xerrors.ConflictError.
//   - Save of an existing ledger is a compare-and-swap on Version: it
//     persists only if the stored version still matches, bumps Version on
//     success, and returns *xerrors.ConflictError on a stale copy.
//   - Delete is version-guarded the same way.
//   - every write is all-or-nothing for the ledger aggregate.
type Store interface {
	// Get loads one ledger by id; *xerrors.NotFoundError if absent
	Get(ctx context.Context, id uint) (*domain.SectionLedger, error)

	// FindByUserYear returns all ledgers for a taxpayer and year,
	// ordered by section
	FindByUserYear(ctx context.Context, userID uint, year string) ([]*domain.SectionLedger, error)

	// FindByKey loads the single ledger for the full key;
	// *xerrors.NotFoundError if absent
	FindByKey(ctx context.Context, userID uint, year string, section domain.Section) (*domain.SectionLedger, error)

	// Save upserts a ledger under the semantics described above
	Save(ctx context.Context, ledger *domain.SectionLedger) error

	// Delete removes a ledger, guarded by its Version
	Delete(ctx context.Context, ledger *domain.SectionLedger) error
}
