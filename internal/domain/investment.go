package domain

import "time"

// Investment Model: a plain investment record with no invariants beyond
// sums; the per-section limit bookkeeping lives in the wallet ledgers
type Investment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	UserID        uint      `gorm:"index;not null" json:"userId"`          // Owning taxpayer
	FinancialYear string    `gorm:"size:16;not null" json:"financialYear"` // e.g. "2024-25"
	Type          string    `gorm:"size:16" json:"type"`                   // ELSS, PPF, NPS, SIP, FD, LIC, EPF, NSC, Other
	Amount        float64   `json:"amount"`                                // Invested amount
	Section       string    `gorm:"size:16;default:80C" json:"section"`    // Claimed deduction section code
	Returns       float64   `json:"returns"`                               // Realized returns so far
	Description   string    `json:"description"`                           // Free-form note
	DateInvested  time.Time `json:"dateInvested"`                          // When the investment was made
	CreatedAt     time.Time `json:"createdAt"`                             // Timestamp of creation
	UpdatedAt     time.Time `json:"updatedAt"`                             // Timestamp of last update
}
