package media

import (
	"context"
	"errors"
	"fmt"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseUploader stores photos in a public Supabase Storage bucket.
type SupabaseUploader struct {
	storage *storage_go.Client
	bucket  string
	folder  string
}

func NewSupabaseUploader(storage *storage_go.Client, bucket, folder string) *SupabaseUploader {
	if folder == "" {
		folder = PhotosFolder
	}
	return &SupabaseUploader{storage: storage, bucket: bucket, folder: folder}
}

func (u *SupabaseUploader) Upload(ctx context.Context, obj Object) (*Asset, error) {
	if u.storage == nil {
		return nil, errors.New("supabase storage client is not initialized")
	}

	key := objectKey(u.folder, obj.Filename)
	upsert := false
	opts := storage_go.FileOptions{Upsert: &upsert}
	if obj.ContentType != "" {
		opts.ContentType = &obj.ContentType
	}

	if _, err := u.storage.UploadFile(u.bucket, key, obj.Body, opts); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", obj.Filename, err)
	}

	public := u.storage.GetPublicUrl(u.bucket, key)
	if public.SignedURL == "" {
		return nil, fmt.Errorf("upload of %s returned no URL", obj.Filename)
	}
	return &Asset{URL: public.SignedURL, Key: key}, nil
}

func (u *SupabaseUploader) Remove(ctx context.Context, asset *Asset) error {
	if asset == nil || asset.Key == "" {
		return nil
	}
	if _, err := u.storage.RemoveFile(u.bucket, []string{asset.Key}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", asset.Key, err)
	}
	return nil
}
