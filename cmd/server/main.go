package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"geochat/internal"
	"geochat/internal/blobstore"
	"geochat/internal/entity"
	"geochat/internal/input"
	"geochat/internal/realtime"
	"geochat/internal/repository"
	"geochat/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	cfg := internal.LoadConfig()

	usernamePattern, err := regexp.Compile(cfg.UsernamePattern)
	if err != nil {
		logger.Fatalw("invalid username pattern", "pattern", cfg.UsernamePattern, "error", err)
	}

	// The store is the single source of truth; the process does not begin
	// serving until it is reachable and migrated.
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		logger.Fatalw("failed to open database", "path", cfg.DBPath, "error", err)
	}
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Friendship{},
		&entity.Location{},
		&entity.Message{},
		&entity.FriendListEvent{},
	); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Infow("redis fan-out enabled", "addr", cfg.RedisAddr)
	}

	blobs, err := blobstore.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		logger.Fatalw("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
	}

	hub := realtime.NewHub(rdb, logger)

	userRepo := repository.NewSQLiteUserRepository(db)
	friendshipRepo := repository.NewSQLiteFriendshipRepository(db)
	locationRepo := repository.NewSQLiteLocationRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)
	eventRepo := repository.NewSQLiteFriendEventRepository(db)

	authSvc := service.NewAuthService(userRepo, usernamePattern, []byte(cfg.SecretKey), logger)
	userSvc := service.NewUserService(userRepo, friendshipRepo, blobs, logger)
	presenceSvc := service.NewPresenceService(locationRepo, cfg.NearbyRadiusMeters, cfg.NearbyLimit)
	messageSvc := service.NewMessageService(messageRepo, hub, logger)
	friendSvc := service.NewFriendService(messageRepo, eventRepo, userRepo, userSvc, hub, logger)

	manager := input.NewInputManager()
	manager.SetLogger(logger)
	manager.SetHub(hub)
	manager.SetServices(authSvc, userSvc, presenceSvc, messageSvc, friendSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Run(ctx, cfg); err != nil {
		logger.Fatalw("gateway stopped with error", "error", err)
	}
}
