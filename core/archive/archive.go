package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archive stores synchronization run artifacts (event snapshots, the
// downloaded export file and the statistics report) in an object storage
// bucket under a per-run prefix.
type Archive struct {
	client Client
	bucket string
	region string
	logger *zap.Logger
}

// New creates a new Archive writing into the given bucket.
func New(client Client, cfg Config, logger *zap.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger,
	}
}

// RunPrefix returns the object key prefix for one synchronization run.
func RunPrefix(year int, runID string) string {
	return path.Join("runs", fmt.Sprintf("%d", year), runID)
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", a.bucket, err)
	}
	a.logger.Info("created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// StoreFile uploads a local file under the given run prefix, keeping its base name.
func (a *Archive) StoreFile(ctx context.Context, prefix, filePath string) error {
	objectName := path.Join(prefix, filepath.Base(filePath))
	_, err := a.client.FPutObject(ctx, a.bucket, objectName, filePath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", filePath, err)
	}
	a.logger.Debug("archived file", zap.String("object", objectName))
	return nil
}

// StoreJSON marshals v and uploads it as a JSON object under the run prefix.
func (a *Archive) StoreJSON(ctx context.Context, prefix, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	objectName := path.Join(prefix, name)
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", name, err)
	}
	a.logger.Debug("archived json", zap.String("object", objectName))
	return nil
}
