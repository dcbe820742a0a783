package wallet

import (
	"context"
	"sync"
	"testing"

	"taxease/internal/domain"
	"taxease/internal/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYear = "2024-25"

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store), store
}

func addAmount(t *testing.T, svc *Service, section string, amount float64) *domain.SectionLedger {
	t.Helper()
	ledger, err := svc.AddContribution(context.Background(), 1, testYear, section, "test entry", amount)
	require.NoError(t, err)
	return ledger
}

func TestAddContributionCreatesLedgerWithLimitSnapshot(t *testing.T) {
	svc, _ := newTestService()

	ledger := addAmount(t, svc, "80C", 50000)

	assert.Equal(t, domain.Section80C, ledger.Section)
	assert.Equal(t, 150000.0, ledger.Limit)
	assert.Equal(t, 50000.0, ledger.Invested())
	assert.Equal(t, 100000.0, ledger.Remaining())
	require.Len(t, ledger.Slots, 1)
	assert.NotEmpty(t, ledger.Slots[0].ID)
	assert.False(t, ledger.Slots[0].AddedAt.IsZero())
}

func TestAddContributionResolvesSectionCaseInsensitively(t *testing.T) {
	svc, _ := newTestService()

	ledger, err := svc.AddContribution(context.Background(), 1, testYear, "80ccd(1b)", "NPS top-up", 10000)
	require.NoError(t, err)
	assert.Equal(t, domain.Section80CCD1B, ledger.Section)
	assert.Equal(t, 50000.0, ledger.Limit)
}

func TestAddContributionValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var validationErr *xerrors.ValidationError

	_, err := svc.AddContribution(ctx, 1, "", "80C", "PPF", 1000)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.AddContribution(ctx, 1, testYear, "80C", "PPF", 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.AddContribution(ctx, 1, testYear, "80C", "PPF", -50)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.AddContribution(ctx, 1, testYear, "80Z", "PPF", 1000)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, "80Z")
}

func TestAddContributionRejectsOverLimit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// 80D is capped at 25000; fill it to 20000 first.
	addAmount(t, svc, "80D", 20000)

	_, err := svc.AddContribution(ctx, 1, testYear, "80D", "top-up premium", 6000)
	var limitErr *xerrors.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 25000.0, limitErr.Limit)
	assert.Equal(t, 26000.0, limitErr.Attempted)

	// The rejected add left nothing behind.
	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, 20000.0, ledgers[0].Invested())
	require.Len(t, ledgers[0].Slots, 1)

	// Exactly at the cap is still allowed.
	ledger, err := svc.AddContribution(ctx, 1, testYear, "80D", "final premium", 5000)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, ledger.Invested())
	assert.Equal(t, 0.0, ledger.Remaining())
	assert.Equal(t, 100.0, ledger.Progress())
}

func TestAddContributionUncappedSectionsNeverLimit(t *testing.T) {
	svc, _ := newTestService()

	for _, section := range []string{"80E", "80G"} {
		ledger := addAmount(t, svc, section, 5000000)
		ledger, err := svc.AddContribution(context.Background(), 1, testYear, section, "more", 9000000)
		require.NoError(t, err)
		assert.Equal(t, 14000000.0, ledger.Invested())
		assert.Equal(t, 0.0, ledger.Progress(), "uncapped sections report zero progress")
		assert.Equal(t, 0.0, ledger.Remaining())
	}
}

func TestInvestedAlwaysMatchesSlotSum(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ledger := addAmount(t, svc, "80C", 40000)
	ledger, err := svc.AddContribution(ctx, 1, testYear, "80C", "ELSS", 35000)
	require.NoError(t, err)

	var sum float64
	for _, slot := range ledger.Slots {
		sum += slot.Amount
	}
	assert.Equal(t, sum, ledger.Invested())

	// Still true after an update and a delete.
	newAmount := 20000.0
	ledger, err = svc.UpdateSlot(ctx, ledger.ID, ledger.Slots[0].ID, "", &newAmount)
	require.NoError(t, err)
	sum = 0
	for _, slot := range ledger.Slots {
		sum += slot.Amount
	}
	assert.Equal(t, sum, ledger.Invested())
	assert.Equal(t, 55000.0, ledger.Invested())

	ledger, deleted, err := svc.DeleteSlot(ctx, ledger.ID, ledger.Slots[0].ID)
	require.NoError(t, err)
	require.False(t, deleted)
	assert.Equal(t, 35000.0, ledger.Invested())
}

func TestUpdateSlot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ledger := addAmount(t, svc, "80TTA", 4000)
	slotID := ledger.Slots[0].ID

	// Rename only: amount stays.
	updated, err := svc.UpdateSlot(ctx, ledger.ID, slotID, "savings interest", nil)
	require.NoError(t, err)
	assert.Equal(t, "savings interest", updated.Slots[0].Name)
	assert.Equal(t, 4000.0, updated.Slots[0].Amount)

	// Amount change within the cap.
	amount := 9000.0
	updated, err = svc.UpdateSlot(ctx, ledger.ID, slotID, "", &amount)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, updated.Invested())

	// Over the 10000 cap: rejected, nothing applied.
	amount = 10001.0
	_, err = svc.UpdateSlot(ctx, ledger.ID, slotID, "should not stick", &amount)
	var limitErr *xerrors.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 10000.0, limitErr.Limit)

	current, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, current[0].Invested())
	assert.Equal(t, "savings interest", current[0].Slots[0].Name)

	// Non-positive amounts are invalid.
	amount = 0
	_, err = svc.UpdateSlot(ctx, ledger.ID, slotID, "", &amount)
	var validationErr *xerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Unknown slot and unknown ledger are not-found conditions.
	var notFoundErr *xerrors.NotFoundError
	_, err = svc.UpdateSlot(ctx, ledger.ID, "no-such-slot", "x", nil)
	require.ErrorAs(t, err, &notFoundErr)
	_, err = svc.UpdateSlot(ctx, 999, slotID, "x", nil)
	require.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteSlotRemovesLedgerWhenEmpty(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first := addAmount(t, svc, "80C", 10000)
	addAmount(t, svc, "80D", 5000)

	ledger, deleted, err := svc.DeleteSlot(ctx, first.ID, first.Slots[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted, "removing the last slot removes the ledger")
	assert.Equal(t, domain.Section80C, ledger.Section)

	// The 80C section is gone from subsequent reads; 80D survives.
	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, domain.Section80D, ledgers[0].Section)

	// The gone ledger is now a not-found condition.
	var notFoundErr *xerrors.NotFoundError
	_, _, err = svc.DeleteSlot(ctx, first.ID, "anything")
	require.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteSlotUnknownSlot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ledger := addAmount(t, svc, "80C", 10000)

	var notFoundErr *xerrors.NotFoundError
	_, _, err := svc.DeleteSlot(ctx, ledger.ID, "no-such-slot")
	require.ErrorAs(t, err, &notFoundErr)

	// The miss did not disturb the ledger.
	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, 10000.0, ledgers[0].Invested())
}

func TestGetWalletRequiresYear(t *testing.T) {
	svc, _ := newTestService()

	var validationErr *xerrors.ValidationError
	_, err := svc.GetWallet(context.Background(), 1, "")
	require.ErrorAs(t, err, &validationErr)
}

func TestGetWalletSummaryClampsRemainingPerSection(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	addAmount(t, svc, "80C", 150000) // full cap, remaining 0
	addAmount(t, svc, "80D", 10000)  // remaining 15000
	addAmount(t, svc, "80G", 500000) // uncapped

	summary, err := svc.GetWalletSummary(ctx, 1, testYear)
	require.NoError(t, err)

	assert.Equal(t, 660000.0, summary.TotalInvested)
	assert.Equal(t, 175000.0, summary.TotalLimit)
	// Per-section clamping: 0 + 15000 + 0, not TotalLimit-TotalInvested.
	assert.Equal(t, 15000.0, summary.TotalRemaining)
	require.Len(t, summary.BySection, 3)

	for _, s := range summary.BySection {
		if s.Limit > 0 {
			assert.GreaterOrEqual(t, s.Progress, 0.0)
			assert.LessOrEqual(t, s.Progress, 100.0)
		} else {
			assert.Equal(t, 0.0, s.Progress)
		}
	}
}

func TestInitializeWalletIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.InitializeWallet(ctx, 1, testYear, []string{"80C", "80D", "not-a-section"})
	require.NoError(t, err)
	require.Len(t, created, 2, "unknown codes are skipped silently")
	assert.Equal(t, 150000.0, created[0].Limit)
	assert.Empty(t, created[0].Slots)

	// Second call with the same list creates nothing.
	created, err = svc.InitializeWallet(ctx, 1, testYear, []string{"80C", "80D"})
	require.NoError(t, err)
	assert.Empty(t, created)

	// Existing ledgers were left untouched.
	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	assert.Len(t, ledgers, 2)
}

func TestInitializeWalletValidation(t *testing.T) {
	svc, _ := newTestService()

	var validationErr *xerrors.ValidationError
	_, err := svc.InitializeWallet(context.Background(), 1, "", []string{"80C"})
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.InitializeWallet(context.Background(), 1, testYear, nil)
	require.ErrorAs(t, err, &validationErr)
}

func TestConcurrentAddsNeverJointlyExceedCap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Two adds of 15000 against 80D's 25000 cap: at most one may win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddContribution(ctx, 1, testYear, "80D", "racing premium", 15000)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			var limitErr *xerrors.LimitExceededError
			require.ErrorAs(t, err, &limitErr)
		}
	}
	require.Equal(t, 1, successes)

	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.Equal(t, 15000.0, ledgers[0].Invested())
	assert.LessOrEqual(t, ledgers[0].Invested(), ledgers[0].Limit)
}

func TestConcurrentInitializeCreatesNoDuplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.InitializeWallet(ctx, 1, testYear, []string{"80C", "80D", "80TTA"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ledgers, err := svc.GetWallet(ctx, 1, testYear)
	require.NoError(t, err)
	assert.Len(t, ledgers, 3, "one ledger per key despite racing creates")
}

func TestConflictSurfacesAfterRetriesExhausted(t *testing.T) {
	store := &conflictStore{memStore: newMemStore()}
	svc := NewService(store)

	_, err := svc.AddContribution(context.Background(), 1, testYear, "80C", "PPF", 1000)
	var conflictErr *xerrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)
}
