package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gallery/internal/config"
	"gallery/internal/database"
	"gallery/internal/domain/auth"
	"gallery/internal/domain/image"
	"gallery/internal/middleware"
	jwtsvc "gallery/internal/pkg/jwt"
	"gallery/internal/pkg/logger"
	"gallery/internal/pkg/response"
	"gallery/internal/storage"
	"gallery/internal/thumbnail"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&auth.User{}, &image.Image{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	backend, err := buildBackend(cfg, zlog)
	if err != nil {
		zlog.Fatal("storage backend init failed", zap.Error(err))
	}

	j := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := auth.NewService(auth.NewRepository(db), j)
	authHandler := auth.NewHandler(authService)

	thumbs := thumbnail.New(cfg.Upload.ThumbSize, cfg.Upload.ThumbMode, cfg.Upload.ThumbQuality)
	imageService := image.NewService(image.NewRepository(db), backend, thumbs, zlog)
	imageHandler := image.NewHandler(imageService, cfg.Upload.MaxFileSize)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Local assets are served straight off the two storage directories.
	if cfg.Storage.Driver == config.DriverLocal {
		r.Static("/images", cfg.Storage.Local.ImagesDir)
		r.Static("/thumbnails", cfg.Storage.Local.ThumbnailsDir)
	}

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))

		auth.RegisterRoutes(v1, protected, authHandler)
		image.RegisterRoutes(v1, protected, imageHandler)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	zlog.Info("starting server",
		zap.String("addr", addr),
		zap.String("storage_driver", cfg.Storage.Driver),
	)
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func buildBackend(cfg *config.Config, zlog *zap.Logger) (storage.Backend, error) {
	if cfg.Storage.Driver == config.DriverS3 {
		return storage.NewS3(context.Background(), cfg.Storage.S3, zlog)
	}
	if err := cfg.EnsureLocalDirs(); err != nil {
		return nil, err
	}
	return storage.NewLocal(cfg.Storage.Local.ImagesDir, cfg.Storage.Local.ThumbnailsDir), nil
}
