package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/itchan-dev/attachstore/shared/domain"
	_ "golang.org/x/image/webp"
)

const genericMimeType = "application/octet-stream"

// ValidateAttachments opens every uploaded file and collects its metadata.
// allowedMimes may be empty, then any detected type is accepted.
// On error all files opened so far are closed.
func ValidateAttachments(fileHeaders []*multipart.FileHeader, allowedMimes []string) ([]*domain.PendingFile, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	allowed := BuildAllowedMimeMap(allowedMimes)

	pendingFiles := make([]*domain.PendingFile, 0, len(fileHeaders))
	fail := func(err error) ([]*domain.PendingFile, error) {
		ClosePendingFiles(pendingFiles)
		return nil, err
	}

	for _, fileHeader := range fileHeaders {
		file, err := fileHeader.Open()
		if err != nil {
			return fail(fmt.Errorf("failed to open uploaded file: %w", err))
		}

		mimeType, err := DetectMimeType(fileHeader, file)
		if err != nil {
			file.Close()
			return fail(err)
		}

		if len(allowed) > 0 && !allowed[mimeType] {
			file.Close()
			return fail(fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename))
		}

		width, height := ExtractImageDimensions(file, mimeType)

		pendingFiles = append(pendingFiles, &domain.PendingFile{
			Filename:    fileHeader.Filename,
			SizeBytes:   fileHeader.Size,
			MimeType:    mimeType,
			ImageWidth:  width,
			ImageHeight: height,
			Data:        file,
		})
	}

	return pendingFiles, nil
}

// ClosePendingFiles closes the data of every file that holds a closer.
func ClosePendingFiles(files []*domain.PendingFile) {
	for _, pf := range files {
		if closer, ok := pf.Data.(io.Closer); ok {
			closer.Close()
		}
	}
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowedMimes := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowedMimes[m] = true
	}
	return allowedMimes
}

// DetectMimeType trusts the part's Content-Type first, then the file extension,
// and falls back to sniffing the content. The reader is rewound afterwards.
func DetectMimeType(fileHeader *multipart.FileHeader, file io.ReadSeeker) (string, error) {
	mimeType := mediaType(fileHeader.Header.Get("Content-Type"))

	if mimeType == "" || mimeType == genericMimeType {
		if detected := mediaType(mime.TypeByExtension(filepath.Ext(fileHeader.Filename))); detected != "" {
			mimeType = detected
		}
	}

	if mimeType == "" || mimeType == genericMimeType {
		detected, err := mimetype.DetectReader(file)
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return "", fmt.Errorf("failed to rewind uploaded file %s: %w", fileHeader.Filename, seekErr)
		}
		if err == nil {
			mimeType = mediaType(detected.String())
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	return mimeType, nil
}

// mediaType drops parameters such as charset.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.TrimSpace(contentType)
	}
	return mt
}

func ExtractImageDimensions(file io.ReadSeeker, mimeType string) (*int, *int) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	img, _, err := image.DecodeConfig(file)
	file.Seek(0, io.SeekStart)
	if err != nil {
		// not fatal, dimensions are optional
		return nil, nil
	}

	width, height := img.Width, img.Height
	return &width, &height
}
