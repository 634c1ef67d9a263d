package validation

import (
	"bytes"
	"math"
	"testing"

	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingFiles(sizes ...int64) []*domain.PendingFile {
	files := make([]*domain.PendingFile, 0, len(sizes))
	for i, size := range sizes {
		files = append(files, &domain.PendingFile{
			Filename:  "file" + string(rune('a'+i)) + ".txt",
			SizeBytes: size,
			MimeType:  "text/plain",
			Data:      bytes.NewReader(make([]byte, size)),
		})
	}
	return files
}

func TestAttachmentValidator_Files(t *testing.T) {
	v := NewAttachmentValidator(10, 5000)

	t.Run("accepts files within limit", func(t *testing.T) {
		files := pendingFiles(1000, 2000, 5000)
		before := append([]*domain.PendingFile(nil), files...)

		require.NoError(t, v.Files(files))
		assert.Equal(t, before, files, "input must be left unchanged")
	})

	t.Run("accepts empty list", func(t *testing.T) {
		assert.NoError(t, v.Files(nil))
	})

	t.Run("rejects oversized file with limit in message", func(t *testing.T) {
		err := v.Files(pendingFiles(6000))

		require.Error(t, err)
		var validationErr *errors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, err.Error(), "5000")
		assert.Contains(t, err.Error(), "5.0 kB")
	})

	t.Run("first offending file stops validation", func(t *testing.T) {
		err := v.Files(pendingFiles(100, 7000, 9000))

		require.Error(t, err)
		assert.NotContains(t, err.Error(), "fileb.txt")
	})

	t.Run("same input gives same result", func(t *testing.T) {
		ok := pendingFiles(10, 20)
		bad := pendingFiles(10, 5001)
		for i := 0; i < 3; i++ {
			assert.NoError(t, v.Files(ok))
			assert.Equal(t, v.Files(bad), v.Files(bad))
		}
	})
}

func TestAttachmentValidator_Count(t *testing.T) {
	v := NewAttachmentValidator(2, 5000)

	assert.NoError(t, v.Count(0))
	assert.NoError(t, v.Count(2))

	err := v.Count(3)
	require.Error(t, err)
	var validationErr *errors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "2")
}

func TestCalculateMaxRequestSize(t *testing.T) {
	assert.Equal(t, int64(4*1000+1<<20), CalculateMaxRequestSize(4, 1000, 1<<20))
	assert.Equal(t, int64(1<<20), CalculateMaxRequestSize(0, 1000, 1<<20))

	t.Run("saturates instead of overflowing", func(t *testing.T) {
		assert.Equal(t, int64(math.MaxInt64), CalculateMaxRequestSize(1000, math.MaxInt64/10, 1<<20))
		assert.Equal(t, int64(math.MaxInt64), CalculateMaxRequestSize(2, math.MaxInt64/2, 1<<20))
	})

	t.Run("largest configurable limits fit", func(t *testing.T) {
		got := CalculateMaxRequestSize(1000, 1<<40, 1<<20)
		assert.Equal(t, int64(1000)*(1<<40)+1<<20, got)
	})
}
