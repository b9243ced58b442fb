package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	if folder == "" {
		folder = PhotosFolder
	}
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, obj Object) (*Asset, error) {
	if u.cld == nil {
		return nil, errors.New("cloudinary client is not initialized")
	}

	res, err := u.cld.Upload.Upload(ctx, obj.Body, uploader.UploadParams{
		Folder: u.folder,
		Tags:   []string{uploadTag},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", obj.Filename, err)
	}
	// API-level failures come back in the result, not as err
	if res.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload %s: %s", obj.Filename, res.Error.Message)
	}
	if strings.TrimSpace(res.SecureURL) == "" {
		return nil, fmt.Errorf("upload of %s returned no URL", obj.Filename)
	}

	return &Asset{URL: res.SecureURL, Key: res.PublicID}, nil
}

func (u *CloudinaryUploader) Remove(ctx context.Context, asset *Asset) error {
	if asset == nil || asset.Key == "" {
		return nil
	}
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: asset.Key})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", asset.Key, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to delete image %s: %s", asset.Key, res.Error.Message)
	}
	return nil
}
