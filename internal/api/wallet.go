package api

import (
	"context"       // Context for Redis operations
	"encoding/json" // Raw cache payloads
	"net/http"      // HTTP status codes
	"strconv"       // String conversion
	"time"          // Time durations

	"taxease/internal/utils"  // Cache helpers
	"taxease/internal/wallet" // Wallet core service

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// AddContributionRequest represents an add-contribution request
type AddContributionRequest struct {
	FinancialYear string  `json:"financialYear" binding:"required"` // Target financial year
	Section       string  `json:"section" binding:"required"`       // Deduction section code
	Name          string  `json:"name" binding:"required"`          // Contribution label
	Amount        float64 `json:"amount" binding:"required,gt=0"`   // Contribution amount
}

// UpdateSlotRequest represents a slot update; both fields are optional
type UpdateSlotRequest struct {
	Name   string   `json:"name"`   // New label, kept when empty
	Amount *float64 `json:"amount"` // New amount, kept when omitted
}

// InitializeWalletRequest represents a bulk wallet initialization request
type InitializeWalletRequest struct {
	FinancialYear string   `json:"financialYear" binding:"required"` // Target financial year
	Sections      []string `json:"sections" binding:"required"`      // Section codes to initialize
}

// GetWalletHandler returns every section ledger for the authenticated
// taxpayer and the requested financial year
func GetWalletHandler(svc *wallet.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		year := c.Query("financialYear") // Financial year from query
		ctx := context.Background()
		cacheKey := utils.WalletCacheKey(userID.(uint), year)
		// Ledger JSON carries computed fields, so the cache stores the
		// rendered payload rather than the model
		var raw json.RawMessage
		found, err := utils.GetCache(ctx, rdb, cacheKey, &raw)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"wallet": raw, "cached": true})
			return
		}
		// Not cached: ask the wallet service
		ledgers, err := svc.GetWallet(c.Request.Context(), userID.(uint), year)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		payload, err := json.Marshal(ledgers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render wallet"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, json.RawMessage(payload), 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"wallet": json.RawMessage(payload), "cached": false})
	}
}

// GetWalletSummaryHandler returns the cross-section totals projection
func GetWalletSummaryHandler(svc *wallet.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		year := c.Query("financialYear") // Financial year from query
		ctx := context.Background()
		cacheKey := utils.WalletSummaryCacheKey(userID.(uint), year)
		var cached wallet.Summary
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"summary": cached, "cached": true})
			return
		}
		summary, err := svc.GetWalletSummary(c.Request.Context(), userID.(uint), year)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, summary, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"summary": summary, "cached": false})
	}
}

// AddContributionHandler appends a contribution slot to a section ledger,
// creating the ledger on first use
func AddContributionHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddContributionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ledger, err := svc.AddContribution(c.Request.Context(), userID.(uint), req.FinancialYear, req.Section, req.Name, req.Amount)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Log the accepted contribution
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,            // Taxpayer
			"financial_year": req.FinancialYear, // Year
			"section":        ledger.Section,    // Section code
			"amount":         req.Amount,        // Contribution amount
			"invested":       ledger.Invested(), // New invested total
		}).Info("Contribution added")
		invalidateWallet(c, userID.(uint), req.FinancialYear) // Drop stale cache entries
		c.JSON(http.StatusCreated, gin.H{"message": "Contribution added", "section": ledger})
	}
}

// UpdateSlotHandler changes a contribution slot's name and/or amount
func UpdateSlotHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sectionID, err := strconv.ParseUint(c.Param("sectionId"), 10, 32) // Ledger id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section id"})
			return
		}
		var req UpdateSlotRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ledger, err := svc.UpdateSlot(c.Request.Context(), uint(sectionID), c.Param("slotId"), req.Name, req.Amount)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Log the applied update
		logrus.WithFields(logrus.Fields{
			"section_id": ledger.ID,         // Ledger id
			"slot_id":    c.Param("slotId"), // Slot id
			"invested":   ledger.Invested(), // New invested total
		}).Info("Contribution slot updated")
		invalidateWallet(c, ledger.UserID, ledger.FinancialYear) // Drop stale cache entries
		c.JSON(http.StatusOK, gin.H{"message": "Investment slot updated", "section": ledger})
	}
}

// DeleteSlotHandler removes a contribution slot; removing the last slot
// removes the whole section ledger
func DeleteSlotHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sectionID, err := strconv.ParseUint(c.Param("sectionId"), 10, 32) // Ledger id from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section id"})
			return
		}
		ledger, removed, err := svc.DeleteSlot(c.Request.Context(), uint(sectionID), c.Param("slotId"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Log the deletion
		logrus.WithFields(logrus.Fields{
			"section_id":      ledger.ID,         // Ledger id
			"slot_id":         c.Param("slotId"), // Slot id
			"section_removed": removed,           // Whether the ledger went with it
		}).Info("Contribution slot deleted")
		invalidateWallet(c, ledger.UserID, ledger.FinancialYear) // Drop stale cache entries
		// Last slot removed: the empty ledger is gone as well
		if removed {
			c.JSON(http.StatusOK, gin.H{"message": "Investment deleted and section removed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Investment slot deleted", "section": ledger})
	}
}

// InitializeWalletHandler creates empty ledgers for the requested
// sections; idempotent, unknown codes are skipped
func InitializeWalletHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req InitializeWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		created, err := svc.InitializeWallet(c.Request.Context(), userID.(uint), req.FinancialYear, req.Sections)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Log the initialization
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,            // Taxpayer
			"financial_year": req.FinancialYear, // Year
			"created":        len(created),      // Number of new ledgers
		}).Info("Wallet initialized")
		invalidateWallet(c, userID.(uint), req.FinancialYear) // Drop stale cache entries
		c.JSON(http.StatusCreated, gin.H{"message": "Wallet initialized", "sections": created})
	}
}

// invalidateWallet drops the wallet and summary cache for a taxpayer/year
// using the redis client injected by the route group
func invalidateWallet(c *gin.Context, userID uint, year string) {
	if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
		utils.InvalidateWalletCache(context.Background(), rdb, userID, year)
	}
}
