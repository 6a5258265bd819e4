package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/config"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/handler"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/repository"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if err := config.EnsureDirs(cfg); err != nil {
		return nil, err
	}

	s3Repo, err := repository.Open(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}

	return NewWithRepository(cfg, s3Repo, log), nil
}

// NewWithRepository builds the server around an existing repository, which may be nil.
func NewWithRepository(cfg *config.Config, s3Repo repository.S3Repository, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	insp := inspector.New(inspector.NewSource(cfg.App.ImageRoot, s3Repo), io.Discard, cfg.App.MaxImageSize, log)
	imageService := service.NewImageService(s3Repo, insp, cfg, log)

	handler.NewHandler(imageService, cfg, log).Register(router)

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("s3", s3Repo != nil))

	return server
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("host", s.cfg.Server.Host),
		zap.String("port", s.cfg.Server.Port),
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
