// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that course archives
// can be written to AWS S3 or a self-hosted MinIO, and so that tests can use
// core/storage/mocks instead.
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the archive bucket (see EnsureBucket).
//   - PutObject: upload an archive.
//   - GetObject: read an archive back as a stream.
//   - ListObjects / RemoveObject: browse and remove archives.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
