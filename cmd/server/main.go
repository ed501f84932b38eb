package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"comercio-backend/config"
	"comercio-backend/internal/database"
	"comercio-backend/internal/gateway/handlers"
	"comercio-backend/internal/gateway/middleware"
	"comercio-backend/internal/integrations/cloudinary"
	"comercio-backend/internal/integrations/imagekit"
	"comercio-backend/internal/integrations/mailer"
	"comercio-backend/internal/integrations/whatsapp"
	"comercio-backend/internal/services/auth"
	"comercio-backend/internal/services/banner"
	"comercio-backend/internal/services/discount"
	"comercio-backend/internal/services/expense"
	"comercio-backend/internal/services/product"
	"comercio-backend/internal/services/purchase"
	"comercio-backend/internal/services/report"
	"comercio-backend/internal/services/warehouse"
)

func main() {
	// Money fields serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.LoadConfig()
	log := config.GetLogger()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	var uploader *cloudinary.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = cloudinary.NewUploader(cfg.Cloudinary, "products")
		if err != nil {
			log.Warnf("Cloudinary unavailable, product image uploads disabled: %v", err)
		}
	}

	warehouseService := warehouse.NewService(db, redisClient, log)
	purchaseService := purchase.NewService(db, log)
	productService := product.NewService(db, redisClient, log)
	expenseService := expense.NewService(db, log)
	discountService := discount.NewService(db, log)
	bannerService := banner.NewService(db, log)
	reportService := report.NewService(db, log)
	authService := auth.NewService(db, log, cfg.Auth.JWTSecret, cfg.Auth.GoogleClientID)

	warehouseHandler := handlers.NewWarehouseHTTPHandler(warehouseService)
	purchaseHandler := handlers.NewPurchaseHTTPHandler(purchaseService)
	productHandler := handlers.NewProductHTTPHandler(productService, uploader)
	expenseHandler := handlers.NewExpenseHTTPHandler(expenseService)
	discountHandler := handlers.NewDiscountHTTPHandler(discountService)
	bannerHandler := handlers.NewBannerHTTPHandler(bannerService)
	reportHandler := handlers.NewReportHTTPHandler(reportService)
	authHandler := handlers.NewAuthHTTPHandler(authService)
	mediaHandler := handlers.NewMediaHTTPHandler(imagekit.NewClient(cfg.ImageKit))
	notifyHandler := handlers.NewNotifyHTTPHandler(
		whatsapp.NewClient(cfg.WhatsApp), mailer.New(cfg.Mail), purchaseService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// --- Public API Group ---
	public := r.Group("/api")
	{
		authGroup := public.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.GoogleSignIn)
		}

		public.GET("/products", productHandler.ListProducts)
		public.GET("/products/:id", productHandler.GetProduct)
		public.GET("/banners/active", bannerHandler.ActiveBanners)
		public.GET("/discounts/active", discountHandler.ActiveGlobalDiscounts)
	}

	// --- Protected API Group ---
	secret := []byte(cfg.Auth.JWTSecret)
	protected := r.Group("/api")
	protected.Use(middleware.JWTAuth(secret))
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		products := protected.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.POST("/:id/images", productHandler.UploadImages)
		}

		warehouses := protected.Group("/warehouses")
		{
			warehouses.GET("", warehouseHandler.ListWarehouses)
			warehouses.GET("/:id", warehouseHandler.GetWarehouse)
			warehouses.POST("", warehouseHandler.CreateWarehouse)
			warehouses.PUT("/:id", warehouseHandler.UpdateWarehouse)
			warehouses.DELETE("/:id", warehouseHandler.DeleteWarehouse)

			warehouses.POST("/:id/stock/add", warehouseHandler.AddStock)
			warehouses.POST("/:id/stock/remove", warehouseHandler.RemoveStock)
		}
		protected.POST("/warehouses/transfer", warehouseHandler.TransferStock)
		protected.GET("/warehouse-items/product/:productId", warehouseHandler.GetItemsByProduct)
		protected.PUT("/warehouse-items/product/:productId/price-cost", warehouseHandler.UpdatePriceAndCost)
		protected.GET("/warehouse-items/:itemId/movements", warehouseHandler.ListMovements)

		orders := protected.Group("/purchase-orders")
		{
			orders.GET("", purchaseHandler.ListOrders)
			orders.GET("/:id", purchaseHandler.GetOrder)
			orders.POST("", purchaseHandler.CreateOrder)
			orders.PUT("/:id", purchaseHandler.UpdateOrder)
			orders.DELETE("/:id", purchaseHandler.DeleteOrder)
			orders.POST("/:id/documents", purchaseHandler.AddDocument)
			orders.PUT("/:id/documents/:documentId", purchaseHandler.UpdateDocument)
		}

		expenses := protected.Group("/expenses")
		{
			expenses.GET("", expenseHandler.ListExpenses)
			expenses.GET("/summary", expenseHandler.Summary)
			expenses.GET("/:id", expenseHandler.GetExpense)
			expenses.POST("", expenseHandler.CreateExpense)
			expenses.PUT("/:id", expenseHandler.UpdateExpense)
			expenses.DELETE("/:id", expenseHandler.DeleteExpense)
		}

		discounts := protected.Group("/discounts")
		{
			discounts.GET("", discountHandler.ListDiscounts)
			discounts.GET("/:id", discountHandler.GetDiscount)
			discounts.POST("", discountHandler.CreateDiscount)
			discounts.PUT("/:id", discountHandler.UpdateDiscount)
			discounts.DELETE("/:id", discountHandler.DeleteDiscount)
		}

		banners := protected.Group("/banners")
		{
			banners.GET("", bannerHandler.ListBanners)
			banners.GET("/:id", bannerHandler.GetBanner)
			banners.POST("", bannerHandler.CreateBanner)
			banners.PUT("/:id", bannerHandler.UpdateBanner)
			banners.PATCH("/:id/status", bannerHandler.SetStatus)
			banners.DELETE("/:id", bannerHandler.DeleteBanner)
		}

		reports := protected.Group("/reports")
		{
			reports.GET("/overview", reportHandler.Overview)
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/categories", reportHandler.Categories)
			reports.GET("/overview/export", reportHandler.ExportInventory)
		}

		protected.POST("/photo", mediaHandler.UploadPhoto)
		protected.POST("/whatsapp", notifyHandler.SendWhatsApp)
		protected.POST("/mail", notifyHandler.SendOrderConfirmation)
	}

	addr := ":" + cfg.Server.Port
	log.Infof("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
