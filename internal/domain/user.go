package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                // Primary key
	Name         string    `gorm:"not null" json:"name"`                // Display name
	Email        string    `gorm:"unique;not null" json:"email"`        // Unique login email (stored lowercase)
	PasswordHash string    `gorm:"not null" json:"-"`                   // Bcrypt hash, never serialized
	PAN          *string   `gorm:"unique" json:"pan"`                   // Permanent Account Number, optional
	PhoneNumber  string    `json:"phoneNumber"`                         // Contact number, optional
	TaxRegime    string    `gorm:"size:8;default:new" json:"taxRegime"` // Preferred regime: "new" or "old"
	CreatedAt    time.Time `json:"createdAt"`                           // Timestamp of creation
	UpdatedAt    time.Time `json:"updatedAt"`                           // Timestamp of last update
}
