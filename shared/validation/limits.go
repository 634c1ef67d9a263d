package validation

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
)

// AttachmentValidator enforces count and per-file size limits.
// It does no I/O, so the same input always gets the same answer.
type AttachmentValidator struct {
	MaxFileCount int
	MaxFileSize  int64
}

func NewAttachmentValidator(maxFileCount int, maxFileSize int64) *AttachmentValidator {
	return &AttachmentValidator{MaxFileCount: maxFileCount, MaxFileSize: maxFileSize}
}

// Count checks the number of attachments in one request.
func (v *AttachmentValidator) Count(n int) error {
	if n > v.MaxFileCount {
		return &errors.ValidationError{Message: fmt.Sprintf("Max count of attach files: %d", v.MaxFileCount)}
	}
	return nil
}

// Files checks every file against the size limit, stopping at the first one over it.
func (v *AttachmentValidator) Files(files []*domain.PendingFile) error {
	for _, f := range files {
		if f.SizeBytes > v.MaxFileSize {
			return &errors.ValidationError{Message: MaxSizeMessage(v.MaxFileSize)}
		}
	}
	return nil
}

// MaxSizeMessage names the configured limit in bytes and in human form.
func MaxSizeMessage(maxFileSize int64) string {
	return fmt.Sprintf("Max size of attach file: %d bytes (%s)", maxFileSize, humanize.Bytes(uint64(maxFileSize)))
}
