// Package media stores uploaded binaries with an external host and hands back
// a public reference. Callers never see file contents after Upload returns.
package media

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	PhotosFolder = "photos"
	uploadTag    = "festa-guest-photo"
)

// Object is a binary about to be uploaded.
type Object struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Asset is a stored binary. URL is publicly retrievable; Key identifies the
// asset for removal.
type Asset struct {
	URL string
	Key string
}

// Uploader is the file ingestion collaborator.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (*Asset, error)
	Remove(ctx context.Context, asset *Asset) error
}

// objectKey builds a collision-free storage path that keeps the original
// extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	return path.Join(folder, uuid.New().String()+ext)
}
