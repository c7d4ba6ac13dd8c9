package checks

import (
	"context"
	"fmt"
	"strings"

	"course-studio/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport is the result of the object storage check.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	// Archives counts the objects under the archive prefix.
	Archives int `json:"archives"`
}

// CheckStorage reports whether the bucket exists and how many archives it holds.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		report.Archives++
	}
	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Bucket ready", zap.String("bucket", bucket))
	return nil
}
