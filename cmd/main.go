package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/photoshare/api/config"
	"github.com/photoshare/api/internal/handler"
	"github.com/photoshare/api/internal/middleware"
	"github.com/photoshare/api/internal/repository"
	"github.com/photoshare/api/internal/router"
	"github.com/photoshare/api/internal/service"
	"github.com/photoshare/api/pkg/circuit"
	"github.com/photoshare/api/pkg/database"
	"github.com/photoshare/api/pkg/events"
	"github.com/photoshare/api/pkg/logger"
	"github.com/photoshare/api/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.SeedAdmin(seedCtx, db, config.Security); err != nil {
		// a failed seed leaves the API usable, just without an admin
		logger.GetLogger().Error("Failed to seed admin account", zap.Error(err))
	}
	seedCancel()

	sqlDB, err := db.DB()
	if err != nil {
		logger.GetLogger().Fatal("Failed to get database instance", zap.Error(err))
	}

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	var publisher events.Publisher = events.Noop{}
	if config.Events.Enabled {
		publisher = events.NewAMQPPublisher(events.AMQPConfig{
			URL:         config.Events.URL,
			Queue:       config.Events.Queue,
			Breaker:     circuit.DefaultConfig(),
			DialTimeout: config.Events.DialTimeout,
		}, logger.GetLogger())
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	blacklistCache := repository.NewBlacklistCache(redisClient)

	// Services
	hasher := service.NewPasswordHasher(config.Security.BcryptCost)
	blacklistService := service.NewBlacklistService(blacklistRepo, tokenRepo, blacklistCache, config.JWT.ExpirationTime, time.Now)
	tokenService, err := service.NewTokenService(config.JWT, tokenRepo, blacklistService, time.Now)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize token service", zap.Error(err))
	}
	authService := service.NewAuthService(userRepo, hasher, tokenService, blacklistService, publisher, time.Now)
	userService := service.NewUserService(userRepo, hasher, blacklistService, publisher)
	photoService := service.NewPhotoService(photoRepo)
	commentService := service.NewCommentService(commentRepo, photoRepo)
	gate := service.NewAccessGate(tokenService, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	photoHandler := handler.NewPhotoHandler(photoService)
	commentHandler := handler.NewCommentHandler(commentService)
	healthHandler := handler.NewHealthHandler(sqlDB, redisClient, publisher)

	r := router.NewRouter(
		authHandler,
		userHandler,
		photoHandler,
		commentHandler,
		healthHandler,

		middleware.NewAuthMiddleware(gate),
		config,
	).SetupRoutes()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go service.NewJanitor(blacklistService, config.Security.BlacklistPruneEvery).Start(janitorCtx)

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
	logger.GetLogger().Info("Server exited")
}
