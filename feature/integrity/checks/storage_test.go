package checks

import (
	"context"
	"errors"
	"testing"

	"course-studio/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestCheckStorage(t *testing.T) {
	t.Run("Bucket Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archives").Return(false, nil)

		report, err := CheckStorage(context.Background(), client, "archives", "courses")
		require.NoError(t, err)
		assert.False(t, report.BucketExists)
		client.AssertNotCalled(t, "ListObjects")
	})

	t.Run("Counts Archives", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archives").Return(true, nil)
		client.On("ListObjects", mock.Anything, "archives", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "courses/" && o.Recursive
		})).Return(objects("courses/a.json", "courses/b.json"))

		report, err := CheckStorage(context.Background(), client, "archives", "courses")
		require.NoError(t, err)
		assert.True(t, report.BucketExists)
		assert.Equal(t, 2, report.Archives)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "archives").Return(false, errors.New("access denied"))

		_, err := CheckStorage(context.Background(), client, "archives", "courses")
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestFixStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "archives").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "archives", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

	err := FixStorage(context.Background(), client, "archives", "eu-west-1", zap.NewNop())
	assert.NoError(t, err)
	client.AssertNumberOfCalls(t, "MakeBucket", 1)
}
