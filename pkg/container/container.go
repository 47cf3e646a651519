package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"laptopshop-backend/internal/config"
	"laptopshop-backend/internal/infrastructure/cache"
	"laptopshop-backend/internal/infrastructure/database"
	"laptopshop-backend/internal/infrastructure/queue"
	"laptopshop-backend/internal/infrastructure/storage"
	"laptopshop-backend/pkg/jwt"

	// Domain imports
	announcementHandler "laptopshop-backend/internal/domains/announcement/handler"
	announcementRepo "laptopshop-backend/internal/domains/announcement/repository"
	announcementService "laptopshop-backend/internal/domains/announcement/service"
	cartHandler "laptopshop-backend/internal/domains/cart/handler"
	cartRepo "laptopshop-backend/internal/domains/cart/repository"
	cartService "laptopshop-backend/internal/domains/cart/service"
	catalogHandler "laptopshop-backend/internal/domains/catalog/handler"
	catalogRepo "laptopshop-backend/internal/domains/catalog/repository"
	catalogService "laptopshop-backend/internal/domains/catalog/service"
	chatHandler "laptopshop-backend/internal/domains/chat/handler"
	chatRepo "laptopshop-backend/internal/domains/chat/repository"
	chatService "laptopshop-backend/internal/domains/chat/service"
	"laptopshop-backend/internal/domains/chat/ws"
	discountHandler "laptopshop-backend/internal/domains/discount/handler"
	discountRepo "laptopshop-backend/internal/domains/discount/repository"
	discountService "laptopshop-backend/internal/domains/discount/service"
	orderHandler "laptopshop-backend/internal/domains/order/handler"
	orderRepo "laptopshop-backend/internal/domains/order/repository"
	orderService "laptopshop-backend/internal/domains/order/service"
	"laptopshop-backend/internal/domains/payment/gateway"
	"laptopshop-backend/internal/domains/payment/gateway/vnpay"
	paymentHandler "laptopshop-backend/internal/domains/payment/handler"
	paymentService "laptopshop-backend/internal/domains/payment/service"
	reportHandler "laptopshop-backend/internal/domains/report/handler"
	reportRepo "laptopshop-backend/internal/domains/report/repository"
	reportService "laptopshop-backend/internal/domains/report/service"
	returnsHandler "laptopshop-backend/internal/domains/returns/handler"
	returnsRepo "laptopshop-backend/internal/domains/returns/repository"
	returnsService "laptopshop-backend/internal/domains/returns/service"
	"laptopshop-backend/internal/domains/user"
	userHandler "laptopshop-backend/internal/domains/user/handler"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Shared across all domains, lifecycle: singleton

	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *cache.RedisClient
	JWTManager     *jwt.Manager
	TaskQueue      *queue.Client
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	PaymentGateway gateway.Gateway
	ChatHub        *ws.Hub

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	LaptopRepo       catalogRepo.LaptopRepository
	BrandRepo        catalogRepo.BrandRepository
	CategoryRepo     catalogRepo.CategoryRepository
	ImageRepo        catalogRepo.ImageRepository
	CartRepo         cartRepo.CartRepository
	DiscountRepo     discountRepo.DiscountRepository
	OrderRepo        orderRepo.OrderRepository
	ReturnRepo       returnsRepo.ReturnRepository
	ReportRepo       reportRepo.ReportRepository
	ChatRepo         chatRepo.ChatRepository
	UserRepo         user.Repository
	AnnouncementRepo announcementRepo.AnnouncementRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	LaptopService       *catalogService.LaptopService
	ImageService        *catalogService.ImageService
	CartService         *cartService.CartService
	DiscountService     *discountService.DiscountService
	OrderService        *orderService.OrderService
	PaymentService      *paymentService.PaymentService
	ReturnService       *returnsService.ReturnService
	ReportService       *reportService.ReportService
	ChatService         *chatService.ChatService
	UserService         *user.UserService
	AnnouncementService *announcementService.AnnouncementService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	CatalogHandler      *catalogHandler.Handler
	CartHandler         *cartHandler.Handler
	DiscountHandler     *discountHandler.Handler
	OrderHandler        *orderHandler.Handler
	PaymentHandler      *paymentHandler.Handler
	ReturnHandler       *returnsHandler.Handler
	ReportHandler       *reportHandler.Handler
	ChatHandler         *chatHandler.Handler
	UserHandler         *userHandler.Handler
	AnnouncementHandler *announcementHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Redis, MinIO, queue, gateway) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
//
// Nếu thứ tự sai → panic (nil pointer dereference)
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// initInfrastructure dựng các shared components theo thứ tự phụ thuộc
func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// ----------------------------------------
	// POSTGRESQL
	// ----------------------------------------
	log.Println("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(&database.DBConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ----------------------------------------
	// REDIS
	// ----------------------------------------
	// Redis là hard dependency ở đây: cart và chat đều chạy trên Redis
	log.Println("🔴 Connecting to Redis...")

	redisClient := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.Redis = redisClient
	log.Println("✅ Redis connected")

	// ----------------------------------------
	// JWT
	// ----------------------------------------
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// ----------------------------------------
	// TASK QUEUE (asynq)
	// ----------------------------------------
	c.TaskQueue = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	// ----------------------------------------
	// OBJECT STORAGE (MinIO)
	// ----------------------------------------
	log.Println("📦 Connecting to MinIO...")

	store, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Storage = store
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO ready")

	// ----------------------------------------
	// PAYMENT GATEWAY (VNPay)
	// ----------------------------------------
	vnpConfig := vnpay.NewConfig(
		cfg.VNPay.TmnCode,
		cfg.VNPay.HashSecret,
		cfg.VNPay.APIURL,
		cfg.VNPay.ReturnURL,
		cfg.VNPay.IPNURL,
	)
	gw, err := vnpay.NewClient(vnpConfig)
	if err != nil {
		return fmt.Errorf("failed to init VNPay gateway: %w", err)
	}
	c.PaymentGateway = gw

	// ----------------------------------------
	// CHAT HUB
	// ----------------------------------------
	// Hub fan-out qua Redis pub/sub nên chạy được nhiều instance
	c.ChatHub = ws.NewHub(redisClient.Client)
	go c.ChatHub.Run()

	return nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initRepositories khởi tạo tất cả repositories
// Pattern: Constructor Injection
func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.LaptopRepo = catalogRepo.NewLaptopRepository(pool)
	c.BrandRepo = catalogRepo.NewBrandRepository(pool)
	c.CategoryRepo = catalogRepo.NewCategoryRepository(pool)
	c.ImageRepo = catalogRepo.NewImageRepository(pool)
	c.DiscountRepo = discountRepo.NewDiscountRepository(pool)
	c.OrderRepo = orderRepo.NewOrderRepository(pool)
	c.ReturnRepo = returnsRepo.NewReturnRepository(pool)
	c.ReportRepo = reportRepo.NewReportRepository(pool)
	c.ChatRepo = chatRepo.NewChatRepository(pool)
	c.UserRepo = user.NewPostgresRepository(pool)
	c.AnnouncementRepo = announcementRepo.NewAnnouncementRepository(pool)

	// Cart sống hoàn toàn trên Redis, không đụng PostgreSQL
	c.CartRepo = cartRepo.NewCartRepository(c.Redis.Client)
}

// initServices khởi tạo tất cả services
// Cross-domain dependencies đi qua interface hẹp khai báo ở phía consumer
func (c *Container) initServices() {
	cfg := c.Config

	c.LaptopService = catalogService.NewLaptopService(
		c.LaptopRepo,
		c.BrandRepo,
		c.CategoryRepo,
		c.ImageRepo,
		c.TaskQueue,
	)
	c.ImageService = catalogService.NewImageService(
		c.LaptopRepo,
		c.ImageRepo,
		c.Storage,
		c.ImageProcessor,
		c.TaskQueue,
	)
	c.CartService = cartService.NewCartService(c.CartRepo, c.LaptopRepo)
	c.DiscountService = discountService.NewDiscountService(c.DiscountRepo)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.LaptopRepo,
		c.DiscountService,
		c.TaskQueue,
	)
	// Payment tra cứu order qua repo, còn cập nhật outcome qua order service
	// để giữ nguyên validation của state machine
	c.PaymentService = paymentService.NewPaymentService(c.PaymentGateway, c.OrderRepo, c.OrderService)
	c.ReturnService = returnsService.NewReturnService(
		c.ReturnRepo,
		c.OrderRepo,
		c.TaskQueue,
		cfg.Return.WindowDays,
	)
	c.ReportService = reportService.NewReportService(c.ReportRepo)
	c.ChatService = chatService.NewChatService(c.ChatRepo, c.ChatHub, cfg.Chat.AdminUsernames)
	c.UserService = user.NewUserService(c.UserRepo, c.JWTManager, c.TaskQueue)
	c.AnnouncementService = announcementService.NewAnnouncementService(c.AnnouncementRepo)
}

// initHandlers khởi tạo tất cả HTTP handlers
func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewHandler(c.LaptopService, c.ImageService)
	c.CartHandler = cartHandler.NewHandler(c.CartService)
	c.DiscountHandler = discountHandler.NewHandler(c.DiscountService)
	c.OrderHandler = orderHandler.NewHandler(c.OrderService, c.PaymentService)
	c.PaymentHandler = paymentHandler.NewHandler(c.PaymentService)
	c.ReturnHandler = returnsHandler.NewHandler(c.ReturnService)
	c.ReportHandler = reportHandler.NewHandler(c.ReportService)
	c.ChatHandler = chatHandler.NewHandler(c.ChatService, c.ChatHub, c.Config.Chat.AllowedOrigins)
	c.UserHandler = userHandler.NewHandler(c.UserService)
	c.AnnouncementHandler = announcementHandler.NewHandler(c.AnnouncementService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup dọn dẹp resources khi shutdown
// Gọi trong graceful shutdown của server
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.ChatHub != nil {
		c.ChatHub.Stop()
		log.Println("✅ Chat hub stopped")
	}

	if c.TaskQueue != nil {
		if err := c.TaskQueue.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue: %v", err)
		} else {
			log.Println("✅ Task queue closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	log.Println("✅ Container cleanup completed")
}
