package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"agatecity-backend/internal/config"
	infraCache "agatecity-backend/internal/infrastructure/cache"
	"agatecity-backend/internal/infrastructure/database"
	"agatecity-backend/internal/infrastructure/storage"
	"agatecity-backend/pkg/cache"
	"agatecity-backend/pkg/session"

	"agatecity-backend/internal/domains/admin"
	adminHandler "agatecity-backend/internal/domains/admin/handler"
	"agatecity-backend/internal/domains/media"
	mediaHandler "agatecity-backend/internal/domains/media/handler"
	productHandler "agatecity-backend/internal/domains/product/handler"
	productRepo "agatecity-backend/internal/domains/product/repository"
	productService "agatecity-backend/internal/domains/product/service"

	"github.com/hibiken/asynq"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
// Pattern: Service Locator + Dependency Injection
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Lifecycle: Singleton (1 instance duy nhất trong app lifetime)

	Config      *config.Config       // Application config
	DB          *database.PostgresDB // Database connection pool
	Cache       cache.Cache          // Redis cache (interface)
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client

	// Admin session
	Sessions        *session.Manager
	CredentialStore admin.CredentialStore

	// Media pipeline
	Acquirer   *media.Acquirer
	Compositor *media.Compositor

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	ProductRepo productRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	ProductService productService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	ProductHandler *productHandler.Handler
	MediaHandler   *mediaHandler.Handler
	AuthHandler    *adminHandler.Handler

	redisClient *infraCache.RedisClient
}

// NewContainer tạo và initialize toàn bộ dependency graph
//
// QUAN TRỌNG: Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Cache, MinIO, Asynq) - phụ thuộc Config
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
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisClient := infraCache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisClient.Connect(context.Background()); err != nil {
		// Redis failure không critical - log warning và continue
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.redisClient = redisClient
	c.Cache = infraCache.NewRedisCache(redisClient)

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	log.Println("🪣 Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ MinIO storage ready")

	// ========================================
	// STEP 5: ASYNQ CLIENT + SESSION + MEDIA PIPELINE
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.Sessions = session.NewManager(
		cfg.Session.Secret,
		time.Duration(cfg.Session.ExpiryHours)*time.Hour,
	)

	if roster := admin.ParseRoster(cfg.Session.AdminRoster); len(roster) > 0 {
		c.CredentialStore = admin.NewStaticStore(roster)
	} else {
		c.CredentialStore = admin.DefaultStore()
	}

	c.Acquirer = media.NewAcquirer(media.Limits{
		MaxImages:     cfg.Media.MaxImages,
		MaxVideos:     cfg.Media.MaxVideos,
		MaxImageBytes: cfg.Media.MaxImageBytes,
		MaxVideoBytes: cfg.Media.MaxVideoBytes,
	})
	c.Compositor = media.NewCompositor(cfg.Watermark.Text, cfg.Watermark.LogoPath)

	// ========================================
	// STEP 6: REPOSITORIES -> SERVICES -> HANDLERS
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.ProductRepo = productRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.ProductService = productService.NewService(
		c.ProductRepo,
		c.Cache,
		c.Storage,
		storage.NewImageProcessor(),
		c.AsynqClient,
	)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewHandler(c.ProductService)
	c.MediaHandler = mediaHandler.NewHandler(c.Acquirer, c.Compositor)
	c.AuthHandler = adminHandler.NewHandler(
		c.CredentialStore,
		c.Sessions,
		c.Cache,
		c.Config.Session.CookieSecure || c.Config.App.Environment == "production",
	)
}

// Cleanup dọn dẹp resources khi shutdown
// Gọi trong graceful shutdown của server
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close Asynq client: %v", err)
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
