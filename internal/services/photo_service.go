package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/media"
	"github.com/joshua-takyi/festa/internal/models"
)

const uploadService = "photo upload"

type SubmitPhotoInput struct {
	GuestName string `json:"guest_name" binding:"required"`
	Caption   string `json:"caption"`
	PhotoURL  string `json:"photo_url" binding:"required"`
}

type UploadPhotoInput struct {
	GuestName   string
	Caption     string
	Filename    string
	ContentType string
	Body        io.Reader
}

// PhotoService moves photos through submitted, approved and deleted. Only
// approval and deletion need an admin grant.
type PhotoService struct {
	photos   *models.PhotoStore
	uploader media.Uploader
	logger   *slog.Logger
}

func NewPhotoService(photos *models.PhotoStore, uploader media.Uploader, logger *slog.Logger) *PhotoService {
	return &PhotoService{photos: photos, uploader: uploader, logger: logger}
}

func (ps *PhotoService) Submit(ctx context.Context, in SubmitPhotoInput) (*models.Photo, error) {
	return ps.photos.Create(ctx, &models.Photo{
		GuestName: strings.TrimSpace(in.GuestName),
		Caption:   strings.TrimSpace(in.Caption),
		PhotoURL:  strings.TrimSpace(in.PhotoURL),
	})
}

// Upload stores the file first and then records it. A failed upload leaves
// no record; a failed record write removes the uploaded file.
func (ps *PhotoService) Upload(ctx context.Context, in UploadPhotoInput) (*models.Photo, error) {
	if strings.TrimSpace(in.GuestName) == "" {
		return nil, &models.ValidationError{Field: "guest_name", Reason: "is required"}
	}
	if in.Body == nil {
		return nil, &models.ValidationError{Field: "file", Reason: "is required"}
	}
	if ps.uploader == nil {
		return nil, &models.ExternalServiceError{Service: uploadService, Err: errors.New("no uploader configured")}
	}

	asset, err := ps.uploader.Upload(ctx, media.Object{
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Body:        in.Body,
	})
	if err != nil {
		ps.logger.Error("Photo upload failed", "error", err, "filename", in.Filename)
		return nil, &models.ExternalServiceError{Service: uploadService, Err: err}
	}

	photo, err := ps.Submit(ctx, SubmitPhotoInput{
		GuestName: in.GuestName,
		Caption:   in.Caption,
		PhotoURL:  asset.URL,
	})
	if err != nil {
		if rmErr := ps.uploader.Remove(context.WithoutCancel(ctx), asset); rmErr != nil {
			ps.logger.Error("Failed to remove orphaned upload", "error", rmErr, "key", asset.Key)
		}
		return nil, err
	}
	return photo, nil
}

// Approve is idempotent: approving an approved photo returns it unchanged.
func (ps *PhotoService) Approve(ctx context.Context, grant auth.Grant, id string) (*models.Photo, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	photo, err := ps.photos.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.Approved {
		return photo, nil
	}

	photo, err = ps.photos.Update(ctx, id, map[string]any{"approved": true})
	if err != nil {
		return nil, err
	}
	ps.logger.Info("Photo approved", "photo_id", id, "admin", grant.Subject())
	return photo, nil
}

// Delete removes the photo record from either state. The stored file is left
// in place since a submitted reference may point at a file this service never
// uploaded.
func (ps *PhotoService) Delete(ctx context.Context, grant auth.Grant, id string) error {
	if err := grant.Require(); err != nil {
		return err
	}
	if err := ps.photos.Delete(ctx, id); err != nil {
		return err
	}
	ps.logger.Info("Photo deleted", "photo_id", id, "admin", grant.Subject())
	return nil
}

// Gallery lists approved photos newest-first.
func (ps *PhotoService) Gallery(ctx context.Context) ([]*models.Photo, error) {
	return ps.photos.Filter(ctx, models.Filter{"approved": true}, "-created_at")
}

// Queue lists photos awaiting moderation newest-first.
func (ps *PhotoService) Queue(ctx context.Context, grant auth.Grant) ([]*models.Photo, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	return ps.photos.Filter(ctx, models.Filter{"approved": false}, "-created_at")
}

// Approved is the admin view of the gallery.
func (ps *PhotoService) Approved(ctx context.Context, grant auth.Grant) ([]*models.Photo, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	return ps.Gallery(ctx)
}
