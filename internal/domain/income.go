package domain

import "time"

// Income Model: one income record per taxpayer per financial year source
type Income struct {
	ID             uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID         uint      `gorm:"index;not null" json:"userId"`  // Owning taxpayer
	FinancialYear  string    `gorm:"size:16;not null" json:"financialYear"` // e.g. "2024-25"
	Salary         float64   `json:"salary"`                        // Salary income
	BusinessIncome float64   `json:"businessIncome"`                // Business income
	CapitalGains   float64   `json:"capitalGains"`                  // Capital gains
	OtherIncome    float64   `json:"otherIncome"`                   // Other sources
	TotalIncome    float64   `json:"totalIncome"`                   // Sum of the above, recomputed on save
	CreatedAt      time.Time `json:"createdAt"`                     // Timestamp of creation
	UpdatedAt      time.Time `json:"updatedAt"`                     // Timestamp of last update
}

// CalculateTotal recomputes TotalIncome from the component fields
func (i *Income) CalculateTotal() {
	i.TotalIncome = i.Salary + i.BusinessIncome + i.CapitalGains + i.OtherIncome
}
