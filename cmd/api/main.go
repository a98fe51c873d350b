// Package main is the entry point for the orders service API server.
// Пакет main является точкой входа для API сервера сервиса заказов.
//
// The service backs a food-ordering Telegram Mini App: a public customer
// API authenticated with signed init-data and an admin panel API with
// JWT sessions and Casbin RBAC.
// Сервис обслуживает Telegram Mini App для заказа еды: публичный
// клиентский API с аутентификацией через подписанный init-data и API
// админ-панели с JWT-сессиями и Casbin RBAC.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	rediscache "github.com/zahratun/orders-service/internal/adapter/cache/redis"
	"github.com/zahratun/orders-service/internal/adapter/http/handler"
	"github.com/zahratun/orders-service/internal/adapter/http/middleware"
	postgresrepo "github.com/zahratun/orders-service/internal/adapter/repository/postgres"
	"github.com/zahratun/orders-service/internal/adapter/telegram"
	"github.com/zahratun/orders-service/internal/config"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/pkg/telemetry"
	"github.com/zahratun/orders-service/internal/service"

	// Swagger docs / Документация Swagger.
	_ "github.com/zahratun/orders-service/docs"
)

// main is the application entry point.
// main является точкой входа приложения.
//
// Initializes all dependencies and starts the HTTP server with graceful shutdown.
// Инициализирует все зависимости и запускает HTTP сервер с graceful shutdown.
func main() {
	// Load configuration / Загружаем конфигурацию
	// MustLoad panics if config is invalid, which is desired at startup
	// MustLoad паникует при невалидном конфиге, что желательно при запуске
	cfg := config.MustLoad()

	// Initialize logger / Инициализируем логгер
	log := logger.New(logger.Config{
		Level:     getEnv("LOG_LEVEL", "info"),
		Format:    getEnv("LOG_FORMAT", "json"),
		AddSource: true,
	})
	logger.SetDefault(log)

	// Initialize telemetry / Инициализируем телеметрию
	telemetryCfg := telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Telemetry.Environment,
	}
	tp, err := telemetry.InitTelemetry(context.Background(), telemetryCfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "error", err)
	} else if cfg.Telemetry.Enabled {
		log.Info("telemetry initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	// Initialize database connection / Инициализируем подключение к БД
	db, err := initDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	// Initialize Redis connection / Инициализируем подключение к Redis
	redisClient := initRedis(cfg, log)

	// Initialize caches with circuit breakers
	// Инициализируем кэши с circuit breaker'ами
	cacheCBCfg := rediscache.DefaultCircuitBreakerConfig()
	authzCache := rediscache.NewAuthorizationCacheWithCB(rediscache.NewAuthorizationCache(redisClient), cacheCBCfg)
	menuCache := rediscache.NewMenuCacheWithCB(rediscache.NewMenuCache(redisClient), cacheCBCfg)
	tokenCache := rediscache.NewTokenCacheWithCB(rediscache.NewTokenCache(redisClient), cacheCBCfg)
	rateLimitCache := rediscache.NewRateLimitCacheWithCB(rediscache.NewRateLimitCache(redisClient), cacheCBCfg)

	// Initialize repositories with circuit breakers
	// Инициализируем репозитории с circuit breaker'ами
	repoCBCfg := postgresrepo.DefaultCircuitBreakerConfig()
	adminRepo := postgresrepo.NewAdminRepositoryWithCB(postgresrepo.NewAdminRepository(db), repoCBCfg)
	tgUserRepo := postgresrepo.NewTelegramUserRepository(db)
	orderRepo := postgresrepo.NewOrderRepositoryWithCB(postgresrepo.NewOrderRepository(db), repoCBCfg)
	statusLogRepo := postgresrepo.NewStatusLogRepository(db)
	menuRepo := postgresrepo.NewMenuRepositoryWithCB(postgresrepo.NewMenuRepository(db), repoCBCfg)
	auditRepo := postgresrepo.NewAuditLogRepositoryWithCB(postgresrepo.NewAuditLogRepository(db), repoCBCfg)
	txManager := postgresrepo.NewTransactionManagerWithCB(postgresrepo.NewTransactionManager(db), repoCBCfg)

	// Initialize Telegram adapters / Инициализируем адаптеры Telegram
	bot := initBot(cfg, log)
	notifier := telegram.NewNotifier(bot, cfg.Telegram.AdminChatID)
	initDataVerifier := telegram.NewInitDataVerifier(cfg.Telegram.BotToken, time.Duration(cfg.Telegram.InitDataTTL)*time.Hour)

	// Initialize services / Инициализируем сервисы
	authzService, err := service.NewAuthorizationService(db, authzCache, cfg.Casbin.ModelPath, log)
	if err != nil {
		log.Fatal("failed to initialize authorization service", "error", err)
	}

	auditService := service.NewAuditService(auditRepo, log)
	adminService := service.NewAdminService(adminRepo, txManager, authzService, auditService, log)
	orderService := service.NewOrderService(orderRepo, statusLogRepo, menuRepo, txManager, auditService, notifier, log)
	menuService := service.NewMenuService(menuRepo, menuCache, auditService, time.Duration(cfg.Redis.MenuCacheTTL)*time.Minute, log)
	telegramAuthService := service.NewTelegramAuthService(initDataVerifier, tgUserRepo, log)

	authServiceCfg := service.AuthServiceConfig{
		Secret:           cfg.JWT.Secret,
		SessionTTL:       time.Duration(cfg.JWT.SessionTTL) * 24 * time.Hour,
		MaxLoginAttempts: cfg.Lockout.MaxAttempts,
		LockoutDuration:  time.Duration(cfg.Lockout.LockoutDuration) * time.Minute,
	}
	authService, err := service.NewAuthService(adminRepo, auditService, tokenCache, rateLimitCache, authServiceCfg, log)
	if err != nil {
		log.Fatal("failed to initialize auth service", "error", err)
	}

	// Initialize HTTP handlers / Инициализируем HTTP обработчики
	healthHandler := handler.NewHealthHandler(db, redisClient)
	authHandler := handler.NewAuthHandler(authService, authzService, cfg.JWT.CookieName, cfg.JWT.CookieSecure, log)
	adminHandler := handler.NewAdminHandler(adminService, auditService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	menuHandler := handler.NewMenuHandler(menuService, log)
	telegramHandler := handler.NewTelegramHandler(telegramAuthService, log)

	// Initialize rate limiter / Инициализируем ограничитель частоты запросов
	rateLimitCfg := middleware.DefaultRateLimitConfig()
	rateLimiter := middleware.NewIPRateLimiter(rateLimitCfg)

	// Setup router with all routes / Настраиваем роутер со всеми маршрутами
	securityCfg := middleware.DefaultSecurityConfig()
	router := setupRouter(routerDeps{
		health:       healthHandler,
		auth:         authHandler,
		admins:       adminHandler,
		orders:       orderHandler,
		menu:         menuHandler,
		telegram:     telegramHandler,
		telegramAuth: middleware.TelegramAuth(telegramAuthService, log),
		securityCfg:  securityCfg,
		rateLimiter:  rateLimiter,
	})

	// Seed database with initial data / Заполняем БД начальными данными
	seeder := service.NewSeeder(db, authzService, log)
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Error("failed to seed database", "error", err)
	}

	// Configure HTTP server / Настраиваем HTTP сервер
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second, // Max time to read request / Макс. время чтения запроса
		WriteTimeout: 15 * time.Second, // Max time to write response / Макс. время записи ответа
		IdleTimeout:  60 * time.Second, // Max time for keep-alive / Макс. время keep-alive
	}

	// Start server in goroutine / Запускаем сервер в горутине
	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown handling / Обработка graceful shutdown
	// Wait for interrupt signal / Ожидаем сигнал прерывания
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests time to complete
	// Даём время на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// Shutdown telemetry / Завершаем телеметрию
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown telemetry", "error", err)
		}
	}

	// Close database connection / Закрываем подключение к БД
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	// Close Redis connection / Закрываем подключение к Redis
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server exited properly")
}

// initDB initializes the PostgreSQL database connection with connection pooling.
// initDB инициализирует подключение к PostgreSQL с пулом соединений.
func initDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool / Настраиваем пул соединений
	sqlDB.SetMaxIdleConns(10)           // Max idle connections / Макс. простаивающих соединений
	sqlDB.SetMaxOpenConns(100)          // Max open connections / Макс. открытых соединений
	sqlDB.SetConnMaxLifetime(time.Hour) // Connection max lifetime / Макс. время жизни соединения

	// Verify connection with ping / Проверяем соединение пингом
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply schema migrations / Применяем миграции схемы
	if err := db.AutoMigrate(
		&domain.AdminUser{},
		&domain.TelegramUser{},
		&domain.Branch{},
		&domain.Category{},
		&domain.Product{},
		&domain.ProductAddon{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.OrderStatusLog{},
		&domain.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// initRedis initializes the Redis client connection.
// initRedis инициализирует подключение клиента Redis.
func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Verify connection / Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatal("failed to connect to Redis", "error", err)
	}
	cancel()

	log.Info("redis connection established")
	return client
}

// initBot initializes the Telegram Bot API client. Returns nil when the
// token is absent or notifications are disabled, which turns the
// notifier into a no-op.
// initBot инициализирует клиент Telegram Bot API. Возвращает nil, когда
// токен отсутствует или уведомления выключены, что превращает
// уведомитель в no-op.
func initBot(cfg *config.Config, log *logger.Logger) *tgbotapi.BotAPI {
	if cfg.Telegram.BotToken == "" || !cfg.Telegram.NotifyEnabled {
		log.Info("telegram notifications disabled")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		// The service stays useful without notifications
		// Сервис остаётся полезным и без уведомлений
		log.Error("failed to initialize telegram bot, notifications disabled", "error", err)
		return nil
	}

	log.Info("telegram bot initialized", "username", bot.Self.UserName)
	return bot
}

// routerDeps bundles everything setupRouter needs.
// routerDeps объединяет всё необходимое для setupRouter.
type routerDeps struct {
	health       *handler.HealthHandler
	auth         *handler.AuthHandler
	admins       *handler.AdminHandler
	orders       *handler.OrderHandler
	menu         *handler.MenuHandler
	telegram     *handler.TelegramHandler
	telegramAuth gin.HandlerFunc
	securityCfg  middleware.SecurityConfig
	rateLimiter  *middleware.IPRateLimiter
}

// setupRouter configures the Gin router with all routes and middleware.
// setupRouter настраивает роутер Gin со всеми маршрутами и middleware.
func setupRouter(deps routerDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Configure trusted proxies to prevent IP spoofing via X-Forwarded-For
	// Настраиваем доверенные прокси для предотвращения IP-спуфинга через X-Forwarded-For
	// Only trust localhost proxies by default. Add your load balancer IPs in production.
	// По умолчанию доверяем только localhost прокси. Добавьте IP балансировщика в продакшене.
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		logger.Default().Error("failed to set trusted proxies", "error", err)
	}

	// Global middleware / Глобальные middleware
	router.Use(gin.Recovery())                                   // Panic recovery / Восстановление после паники
	router.Use(middleware.RequestID())                           // Request ID / ID запроса
	router.Use(middleware.SecurityHeaders(deps.securityCfg))     // Security headers / Заголовки безопасности
	router.Use(middleware.CORS(deps.securityCfg))                // CORS / Кросс-доменные запросы
	router.Use(middleware.RateLimitMiddleware(deps.rateLimiter)) // Global rate limiting / Глобальное ограничение частоты
	router.Use(middleware.Metrics())                             // Prometheus metrics / Метрики Prometheus
	router.Use(requestLogger())                                  // Request logging / Логирование запросов

	// Health check endpoints for Kubernetes probes
	// Эндпоинты проверки здоровья для Kubernetes проб
	router.GET("/health", deps.health.Health)
	router.GET("/health/live", deps.health.Live)
	router.GET("/health/ready", deps.health.Ready)

	// Metrics endpoint for Prometheus / Эндпоинт метрик для Prometheus
	handler.RegisterMetrics(router)

	// Swagger documentation / Документация Swagger
	handler.RegisterSwagger(router)

	// Public customer API / Публичный клиентский API
	api := router.Group("/api")
	api.GET("/menu", deps.menu.Menu)
	api.GET("/branches", deps.menu.Branches)
	api.POST("/auth/telegram", deps.telegram.Authenticate)

	// Customer order endpoints require verified init-data on every request
	// Клиентские эндпоинты заказов требуют проверенный init-data в каждом запросе
	orders := api.Group("/orders")
	orders.Use(deps.telegramAuth)
	orders.POST("", deps.orders.CreateOrder)
	orders.GET("", deps.orders.ListMyOrders)
	orders.GET("/:id", deps.orders.GetMyOrder)

	// Admin authentication / Аутентификация администраторов
	adminAuth := router.Group("/admin/auth")
	// Login has stricter rate limiting to prevent brute-force attacks
	// Login имеет более строгий лимит для защиты от brute-force атак
	adminAuth.POST("/login", middleware.LoginRateLimitMiddleware(deps.rateLimiter), deps.auth.Login)

	// Authenticated admin endpoints / Аутентифицированные админские эндпоинты
	adminAuthed := router.Group("/admin")
	adminAuthed.Use(deps.auth.AdminAuthMiddleware())

	adminAuthed.POST("/auth/logout", deps.auth.Logout)
	adminAuthed.GET("/auth/me", deps.auth.Me)
	adminAuthed.POST("/auth/change-password", deps.auth.ChangePassword)

	// Order management / Управление заказами
	adminOrders := adminAuthed.Group("/orders")
	adminOrders.GET("", deps.auth.RBACMiddleware("orders", "read"), deps.orders.ListOrders)
	adminOrders.GET("/:id", deps.auth.RBACMiddleware("orders", "read"), deps.orders.GetOrder)
	adminOrders.GET("/:id/history", deps.auth.RBACMiddleware("orders", "read"), deps.orders.StatusHistory)
	adminOrders.POST("/:id/transition", deps.auth.RBACMiddleware("orders", "write"), deps.orders.Transition)

	// Menu catalog management / Управление каталогом меню
	adminMenu := adminAuthed.Group("/menu")
	adminMenu.GET("/categories", deps.auth.RBACMiddleware("menu", "read"), deps.menu.ListCategories)
	adminMenu.GET("/categories/:id", deps.auth.RBACMiddleware("menu", "read"), deps.menu.GetCategory)
	adminMenu.POST("/categories", deps.auth.RBACMiddleware("menu", "write"), deps.menu.CreateCategory)
	adminMenu.PATCH("/categories/:id", deps.auth.RBACMiddleware("menu", "write"), deps.menu.UpdateCategory)
	adminMenu.DELETE("/categories/:id", deps.auth.RBACMiddleware("menu", "write"), deps.menu.DeleteCategory)
	adminMenu.GET("/products", deps.auth.RBACMiddleware("menu", "read"), deps.menu.ListProducts)
	adminMenu.POST("/products", deps.auth.RBACMiddleware("menu", "write"), deps.menu.CreateProduct)
	adminMenu.PATCH("/products/:id", deps.auth.RBACMiddleware("menu", "write"), deps.menu.UpdateProduct)
	adminMenu.DELETE("/products/:id", deps.auth.RBACMiddleware("menu", "write"), deps.menu.DeleteProduct)

	// Admin account management (owner only via RBAC)
	// Управление админ-аккаунтами (только owner через RBAC)
	adminAccounts := adminAuthed.Group("/admins")
	adminAccounts.GET("", deps.auth.RBACMiddleware("admins", "read"), deps.admins.ListAdmins)
	adminAccounts.POST("", deps.auth.RBACMiddleware("admins", "write"), deps.admins.CreateAdmin)
	adminAccounts.PATCH("/:id", deps.auth.RBACMiddleware("admins", "write"), deps.admins.UpdateAdmin)
	adminAccounts.DELETE("/:id", deps.auth.RBACMiddleware("admins", "write"), deps.admins.DeactivateAdmin)
	adminAccounts.POST("/:id/reset-password", deps.auth.RBACMiddleware("admins", "write"), deps.admins.ResetPassword)
	adminAccounts.GET("/:id/audit-logs", deps.auth.RBACMiddleware("audit", "read"), deps.admins.AuditLogs)

	return router
}

// requestLogger returns a middleware that logs HTTP requests.
// requestLogger возвращает middleware, которое логирует HTTP запросы.
func requestLogger() gin.HandlerFunc {
	log := logger.Default()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request / Обрабатываем запрос
		c.Next()

		// Log after request completion / Логируем после завершения запроса
		log.LogRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}

// getEnv returns environment variable value or default if not set.
// getEnv возвращает значение переменной окружения или значение по умолчанию.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
