package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerDerivedFields(t *testing.T) {
	ledger := SectionLedger{
		Section: Section80D,
		Limit:   25000,
		Slots: SlotList{
			NewContributionSlot("health premium", 12000),
			NewContributionSlot("parents premium", 8000),
		},
	}

	assert.Equal(t, 20000.0, ledger.Invested())
	assert.Equal(t, 5000.0, ledger.Remaining())
	assert.Equal(t, 80.0, ledger.Progress())
}

func TestLedgerRemainingFloorsAtZero(t *testing.T) {
	// A limit lowered after contributions were made can leave invested
	// above the cap; remaining still reads zero.
	ledger := SectionLedger{
		Limit: 10000,
		Slots: SlotList{NewContributionSlot("interest", 12000)},
	}
	assert.Equal(t, 0.0, ledger.Remaining())
}

func TestUncappedLedgerReportsZeroProgress(t *testing.T) {
	ledger := SectionLedger{
		Section: Section80E,
		Limit:   0,
		Slots:   SlotList{NewContributionSlot("loan interest", 900000)},
	}
	assert.Equal(t, 0.0, ledger.Progress())
	assert.Equal(t, 0.0, ledger.Remaining())
}

func TestSlotIdentity(t *testing.T) {
	a := NewContributionSlot("PPF", 1000)
	b := NewContributionSlot("PPF", 1000)
	assert.NotEqual(t, a.ID, b.ID, "slot ids are unique opaque tokens")
	assert.False(t, a.AddedAt.IsZero())
}

func TestRemoveSlot(t *testing.T) {
	first := NewContributionSlot("a", 100)
	second := NewContributionSlot("b", 200)
	ledger := SectionLedger{Slots: SlotList{first, second}}

	require.True(t, ledger.RemoveSlot(first.ID))
	require.Len(t, ledger.Slots, 1)
	assert.Equal(t, second.ID, ledger.Slots[0].ID)
	assert.False(t, ledger.RemoveSlot("no-such-slot"))
}

func TestLedgerJSONCarriesDerivedTotals(t *testing.T) {
	ledger := SectionLedger{
		ID:            7,
		UserID:        1,
		FinancialYear: "2024-25",
		Section:       Section80C,
		Limit:         150000,
		Slots:         SlotList{NewContributionSlot("ELSS", 60000)},
	}

	raw, err := json.Marshal(ledger)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 60000.0, decoded["invested"])
	assert.Equal(t, 90000.0, decoded["remaining"])
	assert.Equal(t, 40.0, decoded["progress"])
	assert.Equal(t, "80C", decoded["section"])
}

func TestSlotListScanFromStoredJSON(t *testing.T) {
	var slots SlotList
	require.NoError(t, slots.Scan([]byte(`[{"id":"x","name":"FD","amount":5000,"addedAt":"2025-04-01T00:00:00Z"}]`)))
	require.Len(t, slots, 1)
	assert.Equal(t, 5000.0, slots[0].Amount)

	// NULL column reads as an empty collection.
	require.NoError(t, slots.Scan(nil))
	assert.Empty(t, slots)
}
