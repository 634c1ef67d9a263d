package service

import (
	"context"
	"io"
	"time"

	"github.com/itchan-dev/attachstore/shared/domain"
)

// FileStorage is the object store capability: files are addressed by path inside one bucket.
type FileStorage interface {
	// Put stores file.Data under file.Path.
	Put(ctx context.Context, file *domain.AttachFileInfo) error

	// Get opens a stored object for reading.
	Get(ctx context.Context, path domain.FilePath) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path domain.FilePath) error

	BucketName() string
}

// StoredObject describes an object found while listing the bucket.
type StoredObject struct {
	Path    domain.FilePath
	Size    int64
	ModTime time.Time
}

// ObjectLister is implemented by storages that can enumerate their objects.
// Only the garbage collector needs it.
type ObjectLister interface {
	ListObjects(ctx context.Context) ([]StoredObject, error)
}
