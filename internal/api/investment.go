package api

import (
	"net/http" // HTTP status codes
	"time"     // Investment dates

	"taxease/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// InvestmentRequest represents an investment create/update request
type InvestmentRequest struct {
	FinancialYear string  `json:"financialYear" binding:"required"` // Target financial year
	Type          string  `json:"type" binding:"required"`          // ELSS, PPF, NPS, SIP, FD, LIC, EPF, NSC, Other
	Amount        float64 `json:"amount" binding:"required,gt=0"`   // Invested amount
	Section       string  `json:"section"`                          // Claimed section code, defaults to 80C
	Returns       float64 `json:"returns" binding:"gte=0"`          // Realized returns
	Description   string  `json:"description"`                      // Free-form note
}

// GetInvestmentsHandler lists the taxpayer's investment records,
// optionally filtered by financial year
func GetInvestmentsHandler(db *gorm.DB) gin.HandlerFunc {
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
		var investments []domain.Investment // Fetch investment records
		if err := query.Find(&investments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"investments": investments})
	}
}

// GetInvestmentSummaryHandler aggregates investments by section and type
func GetInvestmentSummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		query := db.Where("user_id = ?", userID) // Scope to the taxpayer
		if year := c.Query("financialYear"); year != "" {
			query = query.Where("financial_year = ?", year)
		}
		var investments []domain.Investment // Fetch investment records
		if err := query.Find(&investments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investments"})
			return
		}
		// Aggregate in memory; record counts are small per taxpayer
		var total, section80C, section80CCD, section80D float64
		byType := map[string]float64{}
		for _, inv := range investments {
			total += inv.Amount
			byType[inv.Type] += inv.Amount
			switch inv.Section {
			case "80C":
				section80C += inv.Amount
			case "80CCD(1B)":
				section80CCD += inv.Amount
			case "80D":
				section80D += inv.Amount
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"totalInvested": total,        // Sum across all records
			"section80C":    section80C,   // 80C share
			"section80CCD":  section80CCD, // 80CCD(1B) share
			"section80D":    section80D,   // 80D share
			"byType":        byType,       // Per instrument type
		})
	}
}

// CreateInvestmentHandler stores a new investment record
func CreateInvestmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req InvestmentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		section := req.Section
		if section == "" {
			section = "80C" // Default claimed section
		}
		investment := domain.Investment{
			UserID:        userID.(uint),     // Owning taxpayer
			FinancialYear: req.FinancialYear, // Year
			Type:          req.Type,          // Instrument type
			Amount:        req.Amount,        // Invested amount
			Section:       section,           // Claimed section
			Returns:       req.Returns,       // Realized returns
			Description:   req.Description,   // Note
			DateInvested:  time.Now(),        // Recorded now
		}
		if err := db.Create(&investment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investment"})
			return
		}
		// Log the new record
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,            // Taxpayer
			"financial_year": req.FinancialYear, // Year
			"type":           req.Type,          // Instrument type
			"amount":         req.Amount,        // Invested amount
		}).Info("Investment created")
		c.JSON(http.StatusCreated, gin.H{"investment": investment})
	}
}

// UpdateInvestmentHandler replaces an investment record's fields
func UpdateInvestmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req InvestmentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var investment domain.Investment // Fetch the record, scoped to the taxpayer
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&investment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investment not found"})
			return
		}
		// Replace the mutable fields
		investment.FinancialYear = req.FinancialYear
		investment.Type = req.Type
		investment.Amount = req.Amount
		if req.Section != "" {
			investment.Section = req.Section
		}
		investment.Returns = req.Returns
		investment.Description = req.Description
		if err := db.Save(&investment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update investment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"investment": investment})
	}
}

// DeleteInvestmentHandler removes an investment record
func DeleteInvestmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var investment domain.Investment // Fetch the record, scoped to the taxpayer
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&investment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investment not found"})
			return
		}
		if err := db.Delete(&investment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete investment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Investment deleted"})
	}
}
