package main

import (
	"context"                      // context package is needed for Redis operations
	"log"                          // log package is needed for logging
	"taxease/internal/api"         // Custom package for API handlers
	"taxease/internal/config"      // Custom package for configuration
	"taxease/internal/db"          // Ledger store implementation
	"taxease/internal/middleware"  // Custom package for middleware
	"taxease/internal/wallet"      // Wallet core service

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database.
	// TranslateError lets the ledger store detect unique-key races as
	// gorm.ErrDuplicatedKey.
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Wallet core: service over the MySQL-backed ledger store
	walletSvc := wallet.NewService(db.NewLedgerStore(gdb))

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/auth/signup", api.SignupHandler(gdb, cfg.JWTSecret)) // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(gdb, cfg.JWTSecret))   // Login endpoint

	// Everything below requires a valid token; the redis client rides in
	// the request context for cache invalidation
	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	// Profile routes
	authed.GET("/auth/me", api.GetProfileHandler(gdb))    // Profile endpoint
	authed.PUT("/auth/me", api.UpdateProfileHandler(gdb)) // Profile update endpoint

	// Wallet routes
	walletGroup := authed.Group("/wallet")
	walletGroup.GET("", api.GetWalletHandler(walletSvc, redisClient))                 // Wallet ledgers endpoint
	walletGroup.GET("/summary", api.GetWalletSummaryHandler(walletSvc, redisClient))  // Wallet summary endpoint
	walletGroup.POST("/add", api.AddContributionHandler(walletSvc))                   // Add contribution endpoint
	walletGroup.POST("/initialize", api.InitializeWalletHandler(walletSvc))           // Bulk initialization endpoint
	walletGroup.PUT("/:sectionId/slot/:slotId", api.UpdateSlotHandler(walletSvc))     // Slot update endpoint
	walletGroup.DELETE("/:sectionId/slot/:slotId", api.DeleteSlotHandler(walletSvc))  // Slot delete endpoint

	// Tax routes
	taxGroup := authed.Group("/tax")
	taxGroup.POST("/calculate", api.CalculateTaxHandler())              // Ad-hoc calculation endpoint
	taxGroup.POST("/report", api.GenerateReportHandler(gdb))            // Report generation endpoint
	taxGroup.GET("/reports", api.ListReportsHandler(gdb, redisClient))  // Report listing endpoint

	// Income routes
	incomeGroup := authed.Group("/income")
	incomeGroup.GET("", api.GetIncomeHandler(gdb))           // List income records endpoint
	incomeGroup.POST("", api.CreateIncomeHandler(gdb))       // Create income record endpoint
	incomeGroup.PUT("/:id", api.UpdateIncomeHandler(gdb))    // Update income record endpoint
	incomeGroup.DELETE("/:id", api.DeleteIncomeHandler(gdb)) // Delete income record endpoint

	// Investment routes
	investmentGroup := authed.Group("/investments")
	investmentGroup.GET("", api.GetInvestmentsHandler(gdb))                 // List investments endpoint
	investmentGroup.GET("/summary", api.GetInvestmentSummaryHandler(gdb))   // Investment summary endpoint
	investmentGroup.POST("", api.CreateInvestmentHandler(gdb))              // Create investment endpoint
	investmentGroup.PUT("/:id", api.UpdateInvestmentHandler(gdb))           // Update investment endpoint
	investmentGroup.DELETE("/:id", api.DeleteInvestmentHandler(gdb))        // Delete investment endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
