package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/helpers"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/services"
)

// MaxPhotoBytes caps a single uploaded photo.
const MaxPhotoBytes = 10 << 20

// SubmitPhoto accepts either a JSON body with a photo_url or a multipart form
// with a file field. Either way the photo enters the moderation queue.
func SubmitPhoto(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			uploadPhoto(c, s, logger)
			return
		}

		var in services.SubmitPhotoInput
		if err := c.ShouldBindJSON(&in); err != nil {
			helpers.BadRequest(c, "", "invalid photo: "+err.Error())
			return
		}
		photo, err := s.Submit(c.Request.Context(), in)
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(photo, "Photo sent for approval"))
	}
}

func uploadPhoto(c *gin.Context, s *services.PhotoService, logger *slog.Logger) {
	header, err := c.FormFile("file")
	if err != nil {
		helpers.BadRequest(c, "file", "a photo file is required")
		return
	}
	if header.Size > MaxPhotoBytes {
		helpers.BadRequest(c, "file", fmt.Sprintf("photo must be at most %d MB", MaxPhotoBytes>>20))
		return
	}

	file, err := header.Open()
	if err != nil {
		helpers.WriteError(c, logger, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	contentType, err := sniffImage(file)
	if err != nil {
		helpers.BadRequest(c, "file", err.Error())
		return
	}

	photo, err := s.Upload(c.Request.Context(), services.UploadPhotoInput{
		GuestName:   c.PostForm("guest_name"),
		Caption:     c.PostForm("caption"),
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		helpers.WriteError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse(photo, "Photo sent for approval"))
}

var errUnreadableUpload = errors.New("unreadable upload")

// sniffImage detects the content type from the file header and rewinds the
// file for the uploader.
func sniffImage(file multipart.File) (string, error) {
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", errUnreadableUpload
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("file must be an image, got %s", mt.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", errUnreadableUpload
	}
	return mt.String(), nil
}

func ListGallery(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		photos, err := s.Gallery(c.Request.Context())
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(photos, len(photos)))
	}
}

func ListPendingPhotos(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		photos, err := s.Queue(c.Request.Context(), helpers.GrantFrom(c))
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(photos, len(photos)))
	}
}

func ListApprovedPhotos(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		photos, err := s.Approved(c.Request.Context(), helpers.GrantFrom(c))
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(photos, len(photos)))
	}
}

func ApprovePhoto(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		photo, err := s.Approve(c.Request.Context(), helpers.GrantFrom(c), c.Param("id"))
		if err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(photo, "Photo approved"))
	}
}

func DeletePhoto(s *services.PhotoService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Delete(c.Request.Context(), helpers.GrantFrom(c), c.Param("id")); err != nil {
			helpers.WriteError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Photo deleted"))
	}
}
