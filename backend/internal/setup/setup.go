package setup

import (
	"context"
	"fmt"

	"github.com/itchan-dev/attachstore/backend/internal/handler"
	"github.com/itchan-dev/attachstore/backend/internal/service"
	"github.com/itchan-dev/attachstore/backend/internal/storage/fs"
	"github.com/itchan-dev/attachstore/backend/internal/storage/minio"
	"github.com/itchan-dev/attachstore/backend/internal/storage/pg"
	"github.com/itchan-dev/attachstore/backend/internal/utils"
	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/itchan-dev/attachstore/shared/logger"
	"github.com/itchan-dev/attachstore/shared/validation"
)

// FileStore is what the service and the collector need from an object store.
type FileStore interface {
	service.FileStorage
	service.GCFileStorage
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config    *config.Config
	Storage   *pg.Storage
	Files     FileStore
	Handler   *handler.Handler
	Collector *service.OrphanCollector
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	files, err := NewFileStore(ctx, cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}
	if err := checkBucket(cfg, files); err != nil {
		storage.Cleanup()
		return nil, err
	}
	logger.Log.Info("file storage ready", "backend", cfg.Public.StorageBackend, "bucket", files.BucketName())

	limits := validation.NewAttachmentValidator(cfg.Public.MaxFileCount, cfg.Public.MaxFileSize)
	message := service.NewMessage(storage, utils.NewMessageValidator(), limits, files)

	health := checks{storage}
	if p, ok := files.(pinger); ok {
		health = append(health, p)
	}

	return &Dependencies{
		Config:    cfg,
		Storage:   storage,
		Files:     files,
		Handler:   handler.New(message, cfg, health),
		Collector: service.NewOrphanCollector(storage, files, cfg.Public.GCSafetyThreshold),
	}, nil
}

// NewFileStore opens the object store selected by storage_backend.
func NewFileStore(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.Public.StorageBackend {
	case config.StorageMinio:
		return minio.New(ctx, minio.Options{
			Endpoint:  cfg.Public.Minio.Endpoint,
			AccessKey: cfg.Private.Minio.AccessKey,
			SecretKey: cfg.Private.Minio.SecretKey,
			Bucket:    cfg.Public.Minio.Bucket,
			Location:  cfg.Public.Minio.Location,
			UseSSL:    cfg.Public.Minio.UseSSL,
		})
	case config.StorageFS:
		return fs.New(cfg.Public.MediaPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Public.StorageBackend)
	}
}

// checkBucket makes sure the store writes where the config says.
// Attachment records store the configured bucket name.
func checkBucket(cfg *config.Config, files service.FileStorage) error {
	if want, got := cfg.BucketName(), files.BucketName(); want != got {
		return fmt.Errorf("file storage bucket %q does not match configured bucket %q", got, want)
	}
	return nil
}

// StartBackground launches periodic jobs. They stop when ctx is done.
func (d *Dependencies) StartBackground(ctx context.Context) {
	if d.Config.Public.GCInterval > 0 {
		d.Collector.StartBackgroundCleanup(ctx, d.Config.Public.GCInterval)
	}
}

func (d *Dependencies) Cleanup() error {
	return d.Storage.Cleanup()
}

type pinger interface {
	Ping(ctx context.Context) error
}

// checks is ready only when every dependency answers.
type checks []pinger

func (c checks) Ping(ctx context.Context) error {
	for _, p := range c {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
