package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"course-studio/core/course"
	"course-studio/core/reconcile"
	"course-studio/core/storage"
	"course-studio/feature/courses"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Prefix is the object prefix under which course trees are archived.
const Prefix = "courses"

// ErrArchiveNotFound is returned when a course has no archived copy.
var ErrArchiveNotFound = errors.New("archive not found")

// Info describes a stored archive.
type Info struct {
	CourseID string    `json:"course_id"`
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	SavedAt  time.Time `json:"saved_at"`
}

// RestoreReport is the outcome of restoring an archive.
type RestoreReport struct {
	Plan   *reconcile.Plan   `json:"plan"`
	Result *reconcile.Result `json:"result"`
	DryRun bool              `json:"dry_run"`
}

// Service copies course trees to and from object storage.
type Service struct {
	client  storage.Client
	bucket  string
	courses *courses.Service
	logger  *zap.Logger
}

// NewService creates a new archive service.
func NewService(client storage.Client, bucket string, courseService *courses.Service, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		courses: courseService,
		logger:  logger,
	}
}

// Key returns the object name of a course archive.
func Key(courseID string) string {
	return path.Join(Prefix, courseID+".json")
}

// Export writes the stored course tree as JSON to the bucket.
func (s *Service) Export(ctx context.Context, courseID string) (*Info, error) {
	tree, err := s.courses.Tree(ctx, courseID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode course %s: %w", courseID, err)
	}

	key := Key(courseID)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Info("Course archived", zap.String("course", courseID), zap.String("key", key), zap.Int("bytes", len(data)))
	return &Info{CourseID: courseID, Key: key, Size: int64(len(data)), SavedAt: time.Now()}, nil
}

// Fetch reads an archived course tree back.
func (s *Service) Fetch(ctx context.Context, courseID string) (course.Course, error) {
	key := Key(courseID)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return course.Course{}, s.objectError(key, err)
	}
	defer obj.Close()

	var tree course.Course
	if err := json.NewDecoder(obj).Decode(&tree); err != nil {
		return course.Course{}, s.objectError(key, err)
	}
	return tree, nil
}

// List returns the stored archives, most recent first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	var out []Info
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: Prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		id, ok := strings.CutSuffix(path.Base(obj.Key), ".json")
		if !ok {
			continue
		}
		out = append(out, Info{CourseID: id, Key: obj.Key, Size: obj.Size, SavedAt: obj.LastModified})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

// Delete removes the archive of a course. Removing a missing archive is not an error.
func (s *Service) Delete(ctx context.Context, courseID string) error {
	key := Key(courseID)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	s.logger.Info("Archive removed", zap.String("course", courseID), zap.String("key", key))
	return nil
}

// Restore re-imports an archived tree over the course. With dryRun the plan is
// returned without touching the database.
func (s *Service) Restore(ctx context.Context, courseID string, dryRun bool) (*RestoreReport, error) {
	tree, err := s.Fetch(ctx, courseID)
	if err != nil {
		return nil, err
	}
	imp, err := s.courses.PrepareImport(ctx, tree)
	if err != nil {
		return nil, err
	}
	result, err := s.courses.ApplyImport(ctx, imp, dryRun)
	if err != nil {
		return nil, err
	}
	if !dryRun {
		s.logger.Info("Course restored", zap.String("course", result.CourseID), zap.Int("operations", result.Executed))
	}
	return &RestoreReport{Plan: imp.Plan, Result: result, DryRun: dryRun}, nil
}

func (s *Service) objectError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrArchiveNotFound
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}
