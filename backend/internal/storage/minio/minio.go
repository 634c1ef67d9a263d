package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/itchan-dev/attachstore/backend/internal/service"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Location  string
	UseSSL    bool
}

// Storage keeps attachments in one S3 compatible bucket.
type Storage struct {
	client *minio.Client
	bucket string
}

var (
	_ service.FileStorage   = (*Storage)(nil)
	_ service.GCFileStorage = (*Storage)(nil)
)

// New connects to the object store and creates the bucket if it does not exist.
func New(ctx context.Context, opts Options) (*Storage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Location}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &Storage{client: client, bucket: opts.Bucket}, nil
}

func (s *Storage) BucketName() string {
	return s.bucket
}

func (s *Storage) Put(ctx context.Context, file *domain.AttachFileInfo) error {
	_, err := s.client.PutObject(ctx, s.bucket, file.Path, file.Data, file.Size, minio.PutObjectOptions{
		ContentType:  file.ContentType,
		UserMetadata: map[string]string{"uid": file.Uid.String(), "filename": file.Name},
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", file.Path, err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, path domain.FilePath) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	// GetObject is lazy, Stat surfaces a missing key
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, &errors.ErrorWithStatusCode{Message: "Attachment not found", StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", path, err)
	}
	return obj, nil
}

// Delete removes an object. S3 reports success for missing keys.
func (s *Storage) Delete(ctx context.Context, path domain.FilePath) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}
	return nil
}

func (s *Storage) ListObjects(ctx context.Context) ([]service.StoredObject, error) {
	var objects []service.StoredObject
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects = append(objects, service.StoredObject{
			Path:    obj.Key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}
	return objects, nil
}

// Ping checks that the bucket is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio unreachable: %w", err)
	}
	return nil
}
