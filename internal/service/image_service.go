package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/config"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/domain"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/repository"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/pkg/utils"
)

const imagePrefix = "images/"

var (
	ErrStorageDisabled = errors.New("image storage is not enabled")
	ErrInvalidFormat   = errors.New("invalid file format")
)

type ImageService interface {
	Dimensions(ctx context.Context, path string) (domain.Dimensions, error)
	UploadImage(ctx context.Context, fileBytes []byte, filename, contentType string) (*domain.Image, error)
	ListImages(ctx context.Context) ([]domain.Image, error)
}

type imageService struct {
	s3Repo    repository.S3Repository
	inspector *inspector.Inspector
	cfg       *config.Config
	log       *zap.Logger
}

// NewImageService wires the inspector used for path lookups. s3Repo may be nil.
func NewImageService(s3Repo repository.S3Repository, insp *inspector.Inspector, cfg *config.Config, log *zap.Logger) ImageService {
	return &imageService{
		s3Repo:    s3Repo,
		inspector: insp,
		cfg:       cfg,
		log:       log,
	}
}

func (s *imageService) Dimensions(ctx context.Context, path string) (domain.Dimensions, error) {
	return s.inspector.Inspect(ctx, path)
}

func (s *imageService) UploadImage(ctx context.Context, fileBytes []byte, filename, contentType string) (*domain.Image, error) {
	if s.s3Repo == nil {
		return nil, ErrStorageDisabled
	}
	if !utils.IsAllowedFormat(filename, s.cfg.App.AllowedFormats) {
		return nil, ErrInvalidFormat
	}

	dims, err := inspector.Decode(bytes.NewReader(fileBytes), s.cfg.App.MaxImageSize)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = utils.ContentType(filename)
	}

	imageID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(filename))
	key := imagePrefix + imageID + ext

	if err := s.s3Repo.UploadFile(ctx, key, bytes.NewReader(fileBytes), int64(len(fileBytes)), contentType); err != nil {
		return nil, err
	}

	image := &domain.Image{
		ID:           imageID,
		OriginalName: filename,
		StoragePath:  "s3://" + s.s3Repo.Bucket() + "/" + key,
		Size:         int64(len(fileBytes)),
		ContentType:  contentType,
		Width:        dims.Width,
		Height:       dims.Height,
		UploadedAt:   time.Now(),
	}

	s.log.Info("Image uploaded successfully",
		zap.String("id", imageID),
		zap.String("filename", filename),
		zap.Int64("size", image.Size),
		zap.String("dimensions", dims.Line()))

	return image, nil
}

func (s *imageService) ListImages(ctx context.Context) ([]domain.Image, error) {
	if s.s3Repo == nil {
		return nil, ErrStorageDisabled
	}

	keys, err := s.s3Repo.ListFiles(ctx, imagePrefix)
	if err != nil {
		return nil, err
	}

	images := make([]domain.Image, 0, len(keys))
	for _, key := range keys {
		name := filepath.Base(key)
		images = append(images, domain.Image{
			ID:           strings.TrimSuffix(name, filepath.Ext(name)),
			OriginalName: name,
			StoragePath:  "s3://" + s.s3Repo.Bucket() + "/" + key,
			ContentType:  utils.ContentType(name),
		})
	}

	return images, nil
}
