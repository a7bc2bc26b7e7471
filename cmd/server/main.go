package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bhushanpadar7/diwali-orders-app/config"
	"github.com/bhushanpadar7/diwali-orders-app/internal/engine"
	"github.com/bhushanpadar7/diwali-orders-app/internal/handler"
	"github.com/bhushanpadar7/diwali-orders-app/internal/middleware"
	"github.com/bhushanpadar7/diwali-orders-app/internal/store"
	"github.com/bhushanpadar7/diwali-orders-app/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.LoadConfig(logger)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := database.SeedItems(db, logger); err != nil {
		logger.Error("failed to seed items", "error", err)
		os.Exit(1)
	}
	if cfg.Policy.SeedDemoData {
		if err := database.SeedDemoOrders(db, logger); err != nil {
			logger.Error("failed to seed demo orders", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(r, st, cfg)

	logger.Info("server starting", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func registerRoutes(r *gin.Engine, st *store.Store, cfg *config.Config) {
	policy := engine.Policy{
		LowStockThreshold: cfg.Policy.LowStockThreshold,
		BufferTarget:      cfg.Policy.BufferTarget,
	}

	orderHandler := &handler.OrderHandler{Store: st}
	orderRoutes := r.Group("/api/v1/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.PUT("/:id/payment", orderHandler.UpdateOrderPayment)
		orderRoutes.DELETE("/:id", orderHandler.DeleteOrder)
	}

	inventoryHandler := &handler.InventoryHandler{Store: st, Policy: policy}
	invRoutes := r.Group("/api/v1/inventory")
	{
		invRoutes.GET("/items", inventoryHandler.ListItems)
		invRoutes.PUT("/items/:name/stock", inventoryHandler.UpdateStock)
		invRoutes.GET("/alerts", inventoryHandler.GetLowStockAlerts)
	}

	reportHandler := &handler.ReportHandler{Store: st, Policy: policy, TopItemsLimit: cfg.Policy.TopItemsLimit}
	reportRoutes := r.Group("/api/v1/reports")
	{
		reportRoutes.GET("/dashboard", reportHandler.GetDashboard)
		reportRoutes.GET("/stock-analysis", reportHandler.GetStockAnalysis)
		reportRoutes.GET("/shopping-list", reportHandler.GetShoppingList)
		reportRoutes.GET("/top-items", reportHandler.GetTopItems)
		reportRoutes.GET("/items/:name/customers", reportHandler.GetItemCustomers)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
