package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-ledger/internal/handler"
	"go-pos-ledger/internal/middleware"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/service"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(&model.Product{}, &model.StockEvent{}, &model.Sale{}, &model.SaleItem{}, &model.User{}); err != nil {
		log.Fatal("Migration failed: ", err)
	}
	// The ledger must be physically append-only, not just append-only by API
	if err := database.EnsureLedgerAppendOnly(db); err != nil {
		log.Fatal("Failed to install ledger guard: ", err)
	}

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	eventRepo := repository.NewStockEventRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	saleService := service.NewSaleService(productRepo, eventRepo, saleRepo, db, wsHub)
	stockService := service.NewStockService(productRepo, eventRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, wsHub)
	reportService := service.NewReportService(eventRepo)
	authService := service.NewAuthService(userRepo)

	saleHandler := handler.NewSaleHandler(saleService)
	stockHandler := handler.NewStockHandler(stockService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Ledger v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	// All routes below require an authenticated caller
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", catalogHandler.CreateProduct)
	protected.Put("/products/:id", catalogHandler.UpdateProduct)

	// Sales
	protected.Post("/sales", saleHandler.ProcessSale)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Get("/sales/:id", saleHandler.GetSale)

	// Stock
	protected.Post("/stock/receive", stockHandler.ReceiveStock)
	protected.Get("/ledger", stockHandler.GetLedger)

	// Reports (read-only consumers of the ledger)
	protected.Get("/reports/reconciliation", reportHandler.GetReconciliation)
	protected.Get("/reports/stock-movement", reportHandler.GetStockMovement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if it doesn't exist
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     "ADMIN",
		IsActive: true,
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", email)
	}
}
