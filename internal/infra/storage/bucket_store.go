// Package storage implements the domain FileStore on top of gocloud.dev blob
// buckets, so the raw track artifacts can live on GCS, S3 or a local
// directory depending only on the configured bucket URL.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"waymark/config"
	domainerrors "waymark/internal/domain/errors"
	"waymark/internal/domain/service"
	"waymark/internal/errors"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // register file:// bucket URLs
	_ "gocloud.dev/blob/gcsblob"  // register gs:// bucket URLs
	_ "gocloud.dev/blob/s3blob"   // register s3:// bucket URLs
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type bucketStore struct {
	bucket *blob.Bucket
}

// New opens the configured blob bucket and wires its closure into the
// fx lifecycle.
func New(params Params) (service.FileStore, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket url must be provided")
	}

	bucket, err := blob.OpenBucket(context.Background(), params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open blob bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("Blob bucket opened", slog.String("bucketUrl", params.Config.Storage.BucketURL))

	return &bucketStore{bucket: bucket}, nil
}

// Put writes blob bytes under the given key with the given content type.
func (s *bucketStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return domainerrors.NewFileStorageError(err, "failed to write blob "+key)
	}

	return nil
}

// Delete removes the blob stored under key.
func (s *bucketStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return domainerrors.NewFileStorageError(err, "failed to delete blob "+key)
	}

	return nil
}

// SignedGetURL returns a time-limited download URL for the blob under key.
// On S3-backed buckets the download filename is attached as a
// content-disposition override; other drivers ignore it.
func (s *bucketStore) SignedGetURL(ctx context.Context, key string, ttl time.Duration, downloadFilename string) (string, error) {
	opts := &blob.SignedURLOptions{Expiry: ttl}
	if downloadFilename != "" {
		opts.BeforeSign = func(asFunc func(any) bool) error {
			var input *awss3.GetObjectInput
			if asFunc(&input) {
				disposition := fmt.Sprintf("attachment; filename=%q", downloadFilename)
				input.ResponseContentDisposition = &disposition
			}

			return nil
		}
	}

	url, err := s.bucket.SignedURL(ctx, key, opts)
	if err != nil {
		return "", domainerrors.NewFileStorageError(err, "failed to sign url for blob "+key)
	}

	return url, nil
}
