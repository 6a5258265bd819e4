package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/config"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/greeter"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/service"
)

type Handler struct {
	service service.ImageService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.ImageService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// Greet runs the greeter with a display callback that captures the message
// into the response body.
func (h *Handler) Greet(c *gin.Context) {
	var message string
	g := greeter.New(greeter.DisplayFunc(func(msg string) {
		message = msg
	}), h.log)
	g.Greet(c.Query("name"))

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) Dimensions(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}

	dims, err := h.service.Dimensions(c.Request.Context(), path)
	if err != nil {
		h.log.Warn("Failed to inspect image", zap.String("path", path), zap.Error(err))
		if errors.Is(err, inspector.ErrUnreadable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": inspector.ErrUnreadable.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"width":  dims.Width,
		"height": dims.Height,
		"format": dims.Format,
		"line":   dims.Line(),
	})
}

func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.log.Error("Failed to get file from form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if h.cfg.App.MaxImageSize > 0 && file.Size > h.cfg.App.MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("Failed to read file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	image, err := h.service.UploadImage(c.Request.Context(), buf, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.log.Error("Failed to upload image", zap.String("filename", file.Filename), zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format"})
		case errors.Is(err, inspector.ErrUnreadable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": inspector.ErrUnreadable.Error()})
		case errors.Is(err, service.ErrStorageDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrStorageDisabled.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.service.ListImages(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrStorageDisabled.Error()})
			return
		}
		h.log.Error("Failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Register mounts every route on router.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/greet", h.Greet)
		api.GET("/dimensions", h.Dimensions)
		api.POST("/upload", h.UploadImage)
		api.GET("/images", h.ListImages)
	}
}
