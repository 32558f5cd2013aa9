package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"internship-tracker/backend/config"
)

// ErrNotConfigured no cloudinary credentials were provided
var ErrNotConfigured = errors.New("document storage is not configured")

// Cloudinary document blob store; returns public https URLs
type Cloudinary struct {
	cld    *cld.Cloudinary
	cfg    config.StorageConfig
	logger *zap.Logger
}

// NewCloudinary builds the client from a cloudinary:// URL.
// An empty URL yields a store whose uploads fail with ErrNotConfigured.
func NewCloudinary(cfg *config.StorageConfig, logger *zap.Logger) (*Cloudinary, error) {
	s := &Cloudinary{cfg: *cfg, logger: logger}
	if cfg.CloudinaryURL == "" {
		logger.Warn("cloudinary url not set; document uploads are disabled")
		return s, nil
	}

	c, err := cld.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	s.cld = c
	return s, nil
}

// Upload stores r under folder/subdir/name and returns the secure URL
func (s *Cloudinary) Upload(ctx context.Context, subdir, name string, r io.Reader) (string, error) {
	if s.cld == nil {
		return "", ErrNotConfigured
	}

	if s.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.UploadTimeout)
		defer cancel()
	}

	folder := s.cfg.Folder
	if subdir != "" {
		folder = folder + "/" + subdir
	}

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     name,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	s.logger.Debug("document uploaded", zap.String("public_id", res.PublicID), zap.Int("bytes", res.Bytes))
	return res.SecureURL, nil
}
