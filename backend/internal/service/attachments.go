package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/attachstore/backend/internal/service/utils"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/logger"
)

// Attachments uploads files for a record and takes them back if the record is not saved.
// Every file that reached storage ends up referenced by a record or deleted again.
type Attachments struct {
	storage FileStorage
	now     func() time.Time
	newUid  func() domain.FileUid
}

func NewAttachments(storage FileStorage) *Attachments {
	return &Attachments{
		storage: storage,
		now:     time.Now,
		newUid:  uuid.New,
	}
}

// FileInfos derives storage metadata for every pending file. No I/O.
func (a *Attachments) FileInfos(files []*domain.PendingFile) []*domain.AttachFileInfo {
	infos := make([]*domain.AttachFileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, a.fileInfo(f))
	}
	return infos
}

func (a *Attachments) fileInfo(f *domain.PendingFile) *domain.AttachFileInfo {
	uid := a.newUid()
	// postgres keeps microseconds, round so stored and returned values match
	created := a.now().UTC().Round(time.Microsecond)
	name := utils.SanitizeFilename(f.Filename)
	return &domain.AttachFileInfo{
		Uid:         uid,
		Name:        name,
		Path:        utils.FilePath(created, uid, name),
		Size:        f.SizeBytes,
		ContentType: f.MimeType,
		Created:     created,
		Data:        f.Data,
	}
}

// Upload puts files one by one in input order and returns the ones stored.
// If a put fails, files already stored by this call are deleted before the put error is returned.
func (a *Attachments) Upload(ctx context.Context, infos []*domain.AttachFileInfo) ([]*domain.AttachFileInfo, error) {
	uploaded := make([]*domain.AttachFileInfo, 0, len(infos))
	for _, info := range infos {
		if err := a.storage.Put(ctx, info); err != nil {
			logger.Log.Error("failed to upload file",
				"path", info.Path, "bucket", a.storage.BucketName(), "error", err)
			if len(uploaded) > 0 {
				a.Compensate(ctx, uploaded, reasonPutFailed)
			}
			return nil, err
		}
		filesUploaded.Inc()
		uploaded = append(uploaded, info)
	}
	return uploaded, nil
}

// Records builds the persisted attachment list, keeping upload order.
func (a *Attachments) Records(infos []*domain.AttachFileInfo) domain.Attachments {
	if len(infos) == 0 {
		return nil
	}
	bucket := a.storage.BucketName()
	records := make(domain.Attachments, 0, len(infos))
	for _, info := range infos {
		records = append(records, domain.Attachment{
			Uid:         info.Uid,
			BucketName:  bucket,
			Name:        info.Name,
			Created:     info.Created,
			Path:        info.Path,
			Size:        info.Size,
			ContentType: info.ContentType,
		})
	}
	return records
}

// Compensate deletes uploaded files after a later step failed.
// Every file gets a delete attempt, failures are only logged.
func (a *Attachments) Compensate(ctx context.Context, infos []*domain.AttachFileInfo, reason string) {
	compensations.WithLabelValues(reason).Inc()
	paths := make([]domain.FilePath, 0, len(infos))
	for _, info := range infos {
		paths = append(paths, info.Path)
	}
	a.deleteFiles(ctx, paths, reason)
}

// Remove deletes the files of a record that no longer exists.
func (a *Attachments) Remove(ctx context.Context, attachments domain.Attachments) {
	a.deleteFiles(ctx, attachments.Paths(), reasonRecordDeleted)
}

// deleteFiles survives request cancellation: an aborted client must not leave orphans behind.
func (a *Attachments) deleteFiles(ctx context.Context, paths []domain.FilePath, reason string) {
	ctx = context.WithoutCancel(ctx)
	bucket := a.storage.BucketName()
	for _, path := range paths {
		if err := a.storage.Delete(ctx, path); err != nil {
			fileDeleteFailures.WithLabelValues(reason).Inc()
			logger.Log.Error("delete file failed",
				"path", path, "bucket", bucket, "reason", reason, "error", err)
			continue
		}
		filesDeleted.WithLabelValues(reason).Inc()
	}
}
