package api

import (
	"net/http" // HTTP status codes

	"taxease/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// IncomeRequest represents an income create/update request
type IncomeRequest struct {
	FinancialYear  string  `json:"financialYear" binding:"required"` // Target financial year
	Salary         float64 `json:"salary" binding:"gte=0"`           // Salary income
	BusinessIncome float64 `json:"businessIncome" binding:"gte=0"`   // Business income
	CapitalGains   float64 `json:"capitalGains" binding:"gte=0"`     // Capital gains
	OtherIncome    float64 `json:"otherIncome" binding:"gte=0"`      // Other sources
}

// GetIncomeHandler lists the taxpayer's income records, optionally
// filtered by financial year
func GetIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		query := db.Where("user_id = ?", userID) // Scope to the taxpayer
		// Narrow to one year when requested
		if year := c.Query("financialYear"); year != "" {
			query = query.Where("financial_year = ?", year)
		}
		var incomes []domain.Income // Fetch income records
		if err := query.Find(&incomes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch income records"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"incomes": incomes})
	}
}

// CreateIncomeHandler stores a new income record with its total recomputed
func CreateIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req IncomeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		income := domain.Income{
			UserID:         userID.(uint),     // Owning taxpayer
			FinancialYear:  req.FinancialYear, // Year
			Salary:         req.Salary,        // Salary income
			BusinessIncome: req.BusinessIncome,
			CapitalGains:   req.CapitalGains,
			OtherIncome:    req.OtherIncome,
		}
		income.CalculateTotal() // Total is always derived on save
		if err := db.Create(&income).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create income record"})
			return
		}
		// Log the new record
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,             // Taxpayer
			"financial_year": req.FinancialYear,  // Year
			"total_income":   income.TotalIncome, // Derived total
		}).Info("Income record created")
		c.JSON(http.StatusCreated, gin.H{"income": income})
	}
}

// UpdateIncomeHandler replaces an income record's component amounts
func UpdateIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req IncomeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var income domain.Income // Fetch the record, scoped to the taxpayer
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&income).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Income record not found"})
			return
		}
		// Replace the component fields and rederive the total
		income.FinancialYear = req.FinancialYear
		income.Salary = req.Salary
		income.BusinessIncome = req.BusinessIncome
		income.CapitalGains = req.CapitalGains
		income.OtherIncome = req.OtherIncome
		income.CalculateTotal()
		if err := db.Save(&income).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update income record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"income": income})
	}
}

// DeleteIncomeHandler removes an income record
func DeleteIncomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var income domain.Income // Fetch the record, scoped to the taxpayer
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&income).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Income record not found"})
			return
		}
		if err := db.Delete(&income).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete income record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Income record deleted"})
	}
}
