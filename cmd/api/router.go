package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"laptopshop-backend/internal/shared/middleware"
	"laptopshop-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.Chat.AllowedOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupCartRoutes(v1, c)
		setupDiscountRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupReturnRoutes(v1, c)
		setupChatRoutes(v1, c)
		setupAnnouncementRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
		auth.POST("/forgot-password", c.UserHandler.ForgotPassword)
		auth.POST("/reset-password", c.UserHandler.ResetPassword)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)
		users.PUT("/change-password", c.UserHandler.ChangePassword)
	}
}

// ========================================
// CATALOG ROUTES (public browse)
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	laptops := v1.Group("/laptops")
	{
		laptops.GET("", c.CatalogHandler.ListLaptops)
		laptops.GET("/:slug", c.CatalogHandler.GetLaptop)
	}

	v1.GET("/brands", c.CatalogHandler.ListBrands)
	v1.GET("/categories", c.CatalogHandler.ListCategories)
}

// ========================================
// CART ROUTES
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	cart.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PUT("/items/:laptopId", c.CartHandler.UpdateItem)
		cart.DELETE("/items/:laptopId", c.CartHandler.RemoveItem)
		cart.DELETE("", c.CartHandler.ClearCart)
	}
}

// ========================================
// DISCOUNT ROUTES
// ========================================
func setupDiscountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Check là public: frontend gọi trước khi user đăng nhập xong checkout
	v1.GET("/discounts/check", c.DiscountHandler.CheckDiscount)
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("", c.OrderHandler.Checkout)
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.GET("/:id", c.OrderHandler.GetOrder)
		orders.POST("/:id/cancel", c.OrderHandler.CancelOrder)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
// Gateway callbacks không có JWT: VNPay gọi thẳng từ browser redirect
// và từ server của họ (IPN)
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/payments/vnpay/return", c.PaymentHandler.VNPayReturn)
	v1.GET("/webhooks/vnpay", c.PaymentHandler.VNPayIPN)
}

// ========================================
// RETURN ROUTES
// ========================================
func setupReturnRoutes(v1 *gin.RouterGroup, c *container.Container) {
	returns := v1.Group("/returns")
	returns.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		returns.POST("", c.ReturnHandler.CreateReturn)
		returns.GET("", c.ReturnHandler.ListMyReturns)
		returns.GET("/:id", c.ReturnHandler.GetReturn)
		returns.POST("/:id/cancel", c.ReturnHandler.CancelReturn)
	}
}

// ========================================
// CHAT ROUTES
// ========================================
func setupChatRoutes(v1 *gin.RouterGroup, c *container.Container) {
	chat := v1.Group("/chat")
	chat.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		chat.GET("/ws", c.ChatHandler.Connect)
		chat.POST("/messages", c.ChatHandler.SendMessage)
		chat.GET("/messages", c.ChatHandler.GetHistory)
		chat.GET("/unread", c.ChatHandler.GetUnreadCount)
		chat.POST("/read", c.ChatHandler.MarkRead)
	}
}

// ========================================
// ANNOUNCEMENT ROUTES
// ========================================
func setupAnnouncementRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/announcements", c.AnnouncementHandler.ListAnnouncements)
}

// ========================================
// ADMIN ROUTES
// ========================================
// Tất cả route dưới /admin yêu cầu JWT + role admin
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		// User management
		admin.GET("/users", c.UserHandler.ListUsers)
		admin.PUT("/users/:id/role", c.UserHandler.UpdateUserRole)
		admin.PUT("/users/:id/status", c.UserHandler.UpdateUserStatus)

		// Catalog management
		admin.POST("/laptops", c.CatalogHandler.CreateLaptop)
		admin.PUT("/laptops/:id", c.CatalogHandler.UpdateLaptop)
		admin.DELETE("/laptops/:id", c.CatalogHandler.DeleteLaptop)
		admin.POST("/laptops/:id/images", c.CatalogHandler.UploadImage)
		admin.POST("/brands", c.CatalogHandler.CreateBrand)
		admin.DELETE("/brands/:id", c.CatalogHandler.DeleteBrand)
		admin.POST("/categories", c.CatalogHandler.CreateCategory)
		admin.DELETE("/categories/:id", c.CatalogHandler.DeleteCategory)

		// Discount management
		admin.GET("/discounts", c.DiscountHandler.ListDiscounts)
		admin.POST("/discounts", c.DiscountHandler.CreateDiscount)
		admin.PUT("/discounts/:id", c.DiscountHandler.UpdateDiscount)
		admin.DELETE("/discounts/:id", c.DiscountHandler.DeleteDiscount)

		// Order management
		admin.GET("/orders", c.OrderHandler.ListOrders)
		admin.PUT("/orders/:id/status", c.OrderHandler.UpdateStatus)
		admin.DELETE("/orders/:id", c.OrderHandler.DeleteOrder)

		// Return management
		admin.GET("/returns", c.ReturnHandler.ListReturns)
		admin.POST("/returns/:id/approve", c.ReturnHandler.ApproveReturn)
		admin.POST("/returns/:id/reject", c.ReturnHandler.RejectReturn)
		admin.POST("/returns/:id/receive", c.ReturnHandler.ReceiveReturn)
		admin.POST("/returns/:id/refund", c.ReturnHandler.RefundReturn)

		// Revenue reports
		admin.GET("/reports/revenue", c.ReportHandler.GetRevenueReport)
		admin.GET("/reports/revenue/export", c.ReportHandler.ExportRevenue)
		admin.GET("/reports/dashboard", c.ReportHandler.GetDashboardSummary)

		// Support chat
		admin.GET("/chat/partners", c.ChatHandler.ListPartners)

		// Announcements
		admin.GET("/announcements", c.AnnouncementHandler.ListAllAnnouncements)
		admin.POST("/announcements", c.AnnouncementHandler.CreateAnnouncement)
		admin.PUT("/announcements/:id", c.AnnouncementHandler.UpdateAnnouncement)
		admin.DELETE("/announcements/:id", c.AnnouncementHandler.DeleteAnnouncement)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := c.Redis.HealthCheck(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
