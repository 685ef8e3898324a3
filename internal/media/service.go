package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
)

// BlobStore is the storage surface the service needs. The GCS client
// satisfies it.
type BlobStore interface {
	Upload(ctx context.Context, object string, contentType string, body io.Reader) (string, error)
}

var extensionByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadResult carries the stored object's public URL.
type UploadResult struct {
	URL    string `json:"url"`
	Object string `json:"object"`
}

// Service stores product imagery.
type Service interface {
	Upload(ctx context.Context, contentType string, size int64, body io.Reader) (*UploadResult, error)
}

type service struct {
	store BlobStore
	cfg   config.MediaConfig
	logg  *logger.Logger
}

// NewService constructs the media service.
func NewService(store BlobStore, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, cfg: cfg, logg: logg}, nil
}

// Upload validates the image and streams it into the blob store under a
// fresh object key.
func (s *service) Upload(ctx context.Context, contentType string, size int64, body io.Reader) (*UploadResult, error) {
	ext, ok := extensionByContentType[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"allowed": []string{"image/jpeg", "image/png", "image/webp"}})
	}

	maxBytes := int64(s.cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes > 0 && size > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit").
			WithDetails(map[string]any{"max_upload_mb": s.cfg.MaxUploadMB})
	}
	if size <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty upload body")
	}

	object := fmt.Sprintf("products/%s.%s", uuid.NewString(), ext)

	reader := body
	if maxBytes > 0 {
		// the declared size is client-supplied; cap the actual stream too
		reader = io.LimitReader(body, maxBytes+1)
	}

	url, err := s.store.Upload(ctx, object, contentType, reader)
	if err != nil {
		s.logg.Error(ctx, "media upload failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing image")
	}

	uploadCtx := s.logg.WithField(ctx, "object", object)
	s.logg.Info(uploadCtx, "media uploaded")

	return &UploadResult{URL: url, Object: object}, nil
}
