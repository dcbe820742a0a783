package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"taxease/internal/domain" // Importing domain models
	"taxease/internal/tax"    // Tax calculator core
	"taxease/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// The 80C family cap applied to report deductions
const reportDeductionCap = 150000

// CalculateTaxRequest represents an ad-hoc tax calculation request
type CalculateTaxRequest struct {
	Income     float64 `json:"income" binding:"required"`    // Gross income
	Regime     string  `json:"regime" binding:"required"`    // "new" or "old"
	Deductions float64 `json:"deductions" binding:"gte=0"`   // Total deductions, defaults to 0
}

// GenerateReportRequest represents a tax report generation request
type GenerateReportRequest struct {
	FinancialYear string `json:"financialYear" binding:"required"` // Target financial year
	Regime        string `json:"regime" binding:"required"`        // "new" or "old"
}

// CalculateTaxHandler runs the pure calculator; nothing is persisted
func CalculateTaxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CalculateTaxRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := tax.Calculate(req.Income, req.Regime, req.Deductions)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GenerateReportHandler computes and stores a tax report from the
// taxpayer's recorded income and investments for the year
func GenerateReportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req GenerateReportRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The first income record for the user/year seeds the report
		var income domain.Income
		if err := db.Where("user_id = ? AND financial_year = ?", userID, req.FinancialYear).
			First(&income).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Income data not found"})
			return
		}
		// Deductions: sum of the year's investment records, capped
		var investedTotal float64
		if err := db.Model(&domain.Investment{}).
			Where("user_id = ? AND financial_year = ?", userID, req.FinancialYear).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&investedTotal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum investments"})
			return
		}
		deductions := investedTotal
		if deductions > reportDeductionCap {
			deductions = reportDeductionCap
		}
		// Run the calculator over the recorded income
		result, err := tax.Calculate(income.TotalIncome, req.Regime, deductions)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		report := domain.TaxReport{
			UserID:          userID.(uint),        // Taxpayer
			FinancialYear:   req.FinancialYear,    // Year
			TotalIncome:     income.TotalIncome,   // Gross income
			TotalDeductions: deductions,           // Capped deductions
			TaxableIncome:   result.TaxableIncome, // Income minus deductions
			TaxAmount:       result.TaxAmount,     // Computed tax
			Regime:          result.Regime,        // Regime used
		}
		if err := db.Create(&report).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":        userID,            // Taxpayer
				"financial_year": req.FinancialYear, // Year
				"error":          err.Error(),       // Error message
			}).Error("Failed to save tax report")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tax report"})
			return
		}
		// Log the generated report
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,           // Taxpayer
			"financial_year": req.FinancialYear, // Year
			"regime":         result.Regime,    // Regime used
			"tax_amount":     result.TaxAmount, // Computed tax
		}).Info("Tax report generated")
		// Invalidate the cached report list
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, reportListCacheKey(userID.(uint)))
		}
		c.JSON(http.StatusCreated, gin.H{"report": report})
	}
}

// ListReportsHandler returns the taxpayer's reports, newest first
func ListReportsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := reportListCacheKey(userID.(uint))
		var cached []domain.TaxReport
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"reports": cached, "cached": true})
			return
		}
		var reports []domain.TaxReport // Fetch reports from database
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&reports).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, reports, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"reports": reports, "cached": false})
	}
}

// reportListCacheKey is the cache key for a taxpayer's report list
func reportListCacheKey(userID uint) string {
	return "taxreports:user:" + strconv.Itoa(int(userID))
}
