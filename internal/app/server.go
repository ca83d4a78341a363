// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"farmlink_backend/internal/auth"
	"farmlink_backend/internal/chat"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/jobs"
	"farmlink_backend/internal/middleware"
	"farmlink_backend/internal/post"
	"farmlink_backend/internal/shared"
	"farmlink_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	authHandler *auth.Handler
	userHandler *user.Handler
	postHandler *post.Handler
	chatHandler *chat.Handler

	// Jobs
	postExpiryJob *jobs.PostExpiryJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	postHandler *post.Handler,
	chatHandler *chat.Handler,
	postExpiryJob *jobs.PostExpiryJob,
	tokenService shared.TokenService,
	db *gorm.DB,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Error("Health check: database unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "message": "Database unreachable."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "FarmLink API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW)
	userHandler.RegisterRoutes(v1, authMW)
	postHandler.RegisterRoutes(v1, authMW)
	chatHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:    httpServer,
		router:        router,
		cfg:           cfg,
		logger:        logger,
		authHandler:   authHandler,
		userHandler:   userHandler,
		postHandler:   postHandler,
		chatHandler:   chatHandler,
		postExpiryJob: postExpiryJob,
		authMW:        authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.postExpiryJob != nil {
		if err := s.postExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start post expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Post expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.postExpiryJob != nil {
		s.postExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
