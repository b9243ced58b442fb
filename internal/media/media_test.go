package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("photos", "../Bolo.JPG")
	assert.True(t, strings.HasPrefix(key, "photos/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotContains(t, key, "..")
	assert.NotContains(t, key, "Bolo")

	assert.NotEqual(t, key, objectKey("photos", "../Bolo.JPG"))
}

func TestObjectKeyWithoutExtension(t *testing.T) {
	key := objectKey("photos", "bolo")
	assert.Len(t, strings.TrimPrefix(key, "photos/"), 36)
}

func TestUploadersRequireClient(t *testing.T) {
	obj := Object{Filename: "bolo.png", Body: strings.NewReader("x")}

	_, err := NewCloudinaryUploader(nil, "").Upload(context.Background(), obj)
	require.Error(t, err)

	_, err = NewSupabaseUploader(nil, "photos", "").Upload(context.Background(), obj)
	require.Error(t, err)
}

func TestRemoveWithoutKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	for _, u := range []Uploader{NewCloudinaryUploader(nil, ""), NewSupabaseUploader(nil, "photos", "")} {
		assert.NoError(t, u.Remove(ctx, nil))
		assert.NoError(t, u.Remove(ctx, &Asset{URL: "https://media.test/x"}))
	}
}

func TestDefaultFolder(t *testing.T) {
	assert.Equal(t, PhotosFolder, NewCloudinaryUploader(nil, "").folder)
	assert.Equal(t, "guests", NewSupabaseUploader(nil, "photos", "guests").folder)
}
