package validation

import (
	"fmt"
	"math"
	"net/http"
)

// ValidateAndParseMultipart validates request size and parses the multipart form.
// MaxBytesReader stops reading at maxSize and the server closes the connection,
// so browsers may report a connection reset instead of the 413 body.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// CalculateMaxRequestSize returns the largest acceptable body: every allowed file at
// full size plus a buffer for form fields and multipart overhead.
// The result saturates at math.MaxInt64.
func CalculateMaxRequestSize(maxFileCount int, maxFileSize int64, bufferSize int64) int64 {
	if maxFileCount > 0 && maxFileSize > (math.MaxInt64-bufferSize)/int64(maxFileCount) {
		return math.MaxInt64
	}
	return int64(maxFileCount)*maxFileSize + bufferSize
}
