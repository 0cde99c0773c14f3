// Command api runs the finance tracker HTTP server.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ay-man-sup/personal-finance-tracker/internal/config"
	"github.com/ay-man-sup/personal-finance-tracker/internal/database"
	_ "github.com/ay-man-sup/personal-finance-tracker/internal/docs"
	"github.com/ay-man-sup/personal-finance-tracker/internal/handlers"
	"github.com/ay-man-sup/personal-finance-tracker/internal/logger"
	"github.com/ay-man-sup/personal-finance-tracker/internal/middleware"
	"github.com/ay-man-sup/personal-finance-tracker/internal/services"
	"github.com/ay-man-sup/personal-finance-tracker/internal/validator"
)

// @title Personal Finance Tracker API
// @version 1.0
// @description Income and expense tracking with per-category budgets and alerts.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	log := logger.Get()

	manager, err := database.NewManager(database.LoadConfig())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer manager.Close()

	if err := manager.RunMigrations("migrations"); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	if err := validator.Register(); err != nil {
		log.Fatalw("failed to register validators", "error", err)
	}

	auditService := services.NewAuditService(manager.DB)
	userService := services.NewUserService(manager.DB)
	aggregator := services.NewSpendAggregator(manager.DB)
	budgetService := services.NewBudgetService(manager.DB, aggregator)
	transactionService := services.NewTransactionService(manager.DB, budgetService)

	authHandler := handlers.NewAuthHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.UpdatePassword)
			protected.DELETE("/account", authHandler.DeleteAccount)
		}
	}

	transactions := v1.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware())
	{
		transactions.POST("", transactionHandler.Create)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/summary", transactionHandler.Summary)
		transactions.GET("/categories", transactionHandler.Categories)
		transactions.GET("/export/csv", transactionHandler.ExportCSV)
		transactions.DELETE("/bulk", transactionHandler.BulkDelete)
		transactions.GET("/:id", transactionHandler.GetByID)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)
	}

	budgets := v1.Group("/budgets")
	budgets.Use(middleware.AuthMiddleware())
	{
		budgets.POST("", budgetHandler.Upsert)
		budgets.GET("", budgetHandler.List)
		budgets.GET("/status/all", budgetHandler.StatusAll)
		budgets.GET("/alerts", budgetHandler.Alerts)
		budgets.GET("/:category", budgetHandler.GetByCategory)
		budgets.PUT("/:category", budgetHandler.Update)
		budgets.PUT("/:category/deactivate", budgetHandler.Deactivate)
		budgets.DELETE("/:category", budgetHandler.Delete)
	}

	log.Infow("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server exited", "error", err)
	}
}
