package domain

import "time"

// TaxReport Model: a saved tax computation for one taxpayer and year
type TaxReport struct {
	ID              uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	UserID          uint      `gorm:"index;not null" json:"userId"`          // Owning taxpayer
	FinancialYear   string    `gorm:"size:16;not null" json:"financialYear"` // e.g. "2024-25"
	TotalIncome     float64   `json:"totalIncome"`                           // Gross income the report was computed from
	TotalDeductions float64   `json:"totalDeductions"`                       // Deductions applied (80C-capped investment sum)
	TaxableIncome   float64   `json:"taxableIncome"`                         // TotalIncome - TotalDeductions
	TaxAmount       float64   `json:"taxAmount"`                             // Computed tax
	Regime          string    `gorm:"size:8" json:"regime"`                  // Regime used: "new" or "old"
	CreatedAt       time.Time `json:"createdAt"`                             // Timestamp of creation
	UpdatedAt       time.Time `json:"updatedAt"`                             // Timestamp of last update
}
