// Package main runs the exhibitions platform HTTP server with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/galereya/backend/config"
	"github.com/galereya/backend/internal/auth"
	"github.com/galereya/backend/internal/blocks"
	"github.com/galereya/backend/internal/exhibitions"
	"github.com/galereya/backend/internal/exhibits"
	"github.com/galereya/backend/internal/files"
	"github.com/galereya/backend/internal/middleware"
	"github.com/galereya/backend/internal/moderation"
	"github.com/galereya/backend/internal/organizations"
	"github.com/galereya/backend/internal/tags"
	"github.com/galereya/backend/internal/users"
	"github.com/galereya/backend/pkg/database"
	"github.com/galereya/backend/pkg/redis"
	"github.com/galereya/backend/pkg/response"
	"github.com/galereya/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	store, err := storage.New(ctx, storage.Config{
		Region:               cfg.Storage.Region,
		Endpoint:             cfg.Storage.Endpoint,
		AccessKeyID:          cfg.Storage.AccessKeyID,
		SecretAccessKey:      cfg.Storage.SecretAccessKey,
		Bucket:               cfg.Storage.Bucket,
		UsePathStyle:         cfg.Storage.UsePathStyle,
		PresignExpireMinutes: cfg.Storage.PresignExpireMinutes,
	}, logger)
	if err != nil {
		logger.Fatal("object store", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Repositories
	userRepo := users.NewRepository(pool)
	orgRepo := organizations.NewRepository(pool)
	tagRepo := tags.NewRepository(pool)
	exhibitionRepo := exhibitions.NewRepository(pool, tagRepo)
	blockRepo := blocks.NewRepository(pool)
	exhibitRepo := exhibits.NewRepository(pool)
	auditRepo := moderation.NewAuditRepository(pool)

	// Services and handlers
	moderationService := moderation.NewService(pool, exhibitionRepo, logger)
	authHandler := auth.NewHandler(userRepo, orgRepo, jwtService, logger)
	userHandler := users.NewHandler(userRepo, auditRepo, logger)
	orgHandler := organizations.NewHandler(orgRepo, exhibitionRepo, logger)
	exhibitionHandler := exhibitions.NewHandler(exhibitionRepo, logger)
	blockHandler := blocks.NewHandler(blockRepo, logger)
	exhibitHandler := exhibits.NewHandler(exhibitRepo, logger)
	moderationHandler := moderation.NewHandler(moderationService, auditRepo)
	fileHandler := files.NewHandler(store, rdb, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health: the server is up only when its stores answer.
	router.GET("/health", func(c *gin.Context) {
		hctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(hctx); err != nil {
			response.ServiceUnavailable(c, "database unavailable")
			return
		}
		if err := rdb.Ping(hctx).Err(); err != nil {
			response.ServiceUnavailable(c, "redis unavailable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public
	v1.POST("/users/signup", userHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/org/access-token", authHandler.OrgAccessToken)
	v1.GET("/files/:key", fileHandler.Serve)

	// Public listing with optional viewer identity for like flags.
	public := v1.Group("")
	public.Use(middleware.OptionalJWT(jwtService))
	{
		public.GET("/exhibitions", exhibitionHandler.List)
		public.GET("/exhibitions/:id", exhibitionHandler.Get)
		public.GET("/exhibitions/:id/exhibits", exhibitHandler.ListForExhibition)
		public.GET("/exhibits", exhibitHandler.List)
		public.GET("/exhibits/:id", exhibitHandler.Get)
	}

	// Authenticated API
	api := v1.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/users", middleware.RequireRole("admin"), userHandler.List)
		api.GET("/users/me", userHandler.Me)
		api.PUT("/users/me", userHandler.UpdateMe)
		api.DELETE("/users/me", userHandler.DeleteMe)
		api.PATCH("/users/me/password", userHandler.ChangePassword)
		api.GET("/users/:id", userHandler.GetByID)

		api.POST("/organizations", orgHandler.Create)
		api.GET("/organizations", orgHandler.List)
		api.GET("/organizations/:id/profile", orgHandler.Profile)
		api.PUT("/organizations/:id/profile", orgHandler.UpdateProfile)
		api.GET("/organizations/:id/members", orgHandler.ListMembers)
		api.POST("/organizations/:id/members", orgHandler.AddMember)
		api.PATCH("/organizations/:id/members/:userId", orgHandler.UpdateMember)

		api.POST("/exhibitions", middleware.RequireRole("admin", "moderator"), exhibitionHandler.Create)
		api.PUT("/exhibitions/:id", middleware.RequireRole("admin", "moderator"), exhibitionHandler.Update)
		api.DELETE("/exhibitions/:id", middleware.RequireRole("admin", "moderator"), exhibitionHandler.Delete)
		api.POST("/exhibitions/:id/exhibits", middleware.RequireRole("admin", "moderator"), exhibitionHandler.AttachExhibit)
		// Likes reference the users table; organization tokens have no user row.
		api.POST("/exhibitions/:id/like", middleware.RequireRole("user", "moderator", "admin"), exhibitionHandler.Like)
		api.POST("/exhibitions/:id/unlike", middleware.RequireRole("user", "moderator", "admin"), exhibitionHandler.Unlike)

		api.POST("/exhibitions/:id/blocks", middleware.RequireRole("admin", "moderator"), blockHandler.Create)
		api.PUT("/exhibitions/:id/blocks/:blockId", middleware.RequireRole("admin", "moderator"), blockHandler.Update)
		api.DELETE("/exhibitions/:id/blocks/:blockId", middleware.RequireRole("admin", "moderator"), blockHandler.Delete)

		api.POST("/exhibits", middleware.RequireRole("admin", "moderator"), exhibitHandler.Create)
		api.PUT("/exhibits/:id", middleware.RequireRole("admin", "moderator"), exhibitHandler.Update)
		api.DELETE("/exhibits/:id", middleware.RequireRole("admin", "moderator"), exhibitHandler.Delete)

		api.POST("/files/upload", fileHandler.Upload)
		api.GET("/files/:key/url", fileHandler.SignedURL)
		api.DELETE("/files/:key", middleware.RequireRole("admin", "moderator"), fileHandler.Delete)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole("admin", "moderator"))
		{
			admin.PATCH("/users/:id/block", middleware.RequireRole("admin"), userHandler.Block)
			admin.PATCH("/users/:id/unblock", middleware.RequireRole("admin"), userHandler.Unblock)
			admin.GET("/organizations", orgHandler.AdminList)
			admin.GET("/exhibitions", exhibitionHandler.List)
			admin.PATCH("/organizations/:id/status", moderationHandler.UpdateOrganizationStatus)
			admin.GET("/organizations/:id/comments", moderationHandler.ListOrganizationComments)
			admin.GET("/exhibitions/:id/comments", moderationHandler.ListExhibitionComments)
			admin.PATCH("/exhibitions/:id/status", moderationHandler.UpdateExhibitionStatus)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
