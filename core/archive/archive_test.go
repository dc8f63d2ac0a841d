package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hour-sync/core/archive/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestArchive(client Client) *Archive {
	return New(client, Config{Bucket: "hour-sync"}, zap.NewNop())
}

func TestRunPrefix(t *testing.T) {
	assert.Equal(t, "runs/2024/abc", RunPrefix(2024, "abc"))
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Bucket exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "hour-sync").Return(true, nil)

		err := newTestArchive(client).EnsureBucket(context.Background())
		assert.NoError(t, err)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bucket created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "hour-sync").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "hour-sync", mock.Anything).Return(nil)

		err := newTestArchive(client).EnsureBucket(context.Background())
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Check fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "hour-sync").Return(false, assert.AnError)

		err := newTestArchive(client).EnsureBucket(context.Background())
		assert.Error(t, err)
	})
}

func TestStoreJSON(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "hour-sync", "runs/2024/abc/stats.json",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	err := newTestArchive(client).StoreJSON(context.Background(), RunPrefix(2024, "abc"), "stats.json",
		map[string]int{"would_add": 1})
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStoreFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "export.xlsx")
	err := os.WriteFile(filePath, []byte("data"), 0o644)
	assert.NoError(t, err)

	client := new(mocks.Client)
	client.On("FPutObject", mock.Anything, "hour-sync", "runs/2024/abc/export.xlsx",
		filePath, mock.Anything).Return(minio.UploadInfo{}, nil)

	err = newTestArchive(client).StoreFile(context.Background(), RunPrefix(2024, "abc"), filePath)
	assert.NoError(t, err)
	client.AssertExpectations(t)
}
