package fs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/attachstore/backend/internal/service"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
)

// Storage keeps objects as files under a root directory. The directory name is the bucket name.
type Storage struct {
	rootPath string
}

var (
	_ service.FileStorage   = (*Storage)(nil)
	_ service.GCFileStorage = (*Storage)(nil)
)

func New(rootPath string) (*Storage, error) {
	p, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root storage directory %s: %w", rootPath, err)
	}
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}
	return &Storage{rootPath: p}, nil
}

func (s *Storage) BucketName() string {
	return filepath.Base(s.rootPath)
}

// fullPath resolves an object path, refusing anything that escapes the root.
func (s *Storage) fullPath(path domain.FilePath) (string, error) {
	full := filepath.Join(s.rootPath, filepath.FromSlash(path))
	if !s.below(full) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return full, nil
}

// below reports whether p lies strictly inside the root.
func (s *Storage) below(p string) bool {
	rel, err := filepath.Rel(s.rootPath, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Storage) Put(ctx context.Context, file *domain.AttachFileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.fullPath(file.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	if _, err := io.Copy(dst, file.Data); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, path domain.FilePath) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.ErrorWithStatusCode{Message: "Attachment not found", StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file and the directories it leaves empty. A missing file is not an error.
func (s *Storage) Delete(ctx context.Context, path domain.FilePath) error {
	fullPath, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	// os.Remove fails on non-empty directories, which stops the walk up
	for dir := filepath.Dir(fullPath); s.below(dir); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

// ListObjects walks the root directory and returns every regular file.
func (s *Storage) ListObjects(ctx context.Context) ([]service.StoredObject, error) {
	var objects []service.StoredObject
	err := filepath.WalkDir(s.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.rootPath, path)
		if err != nil {
			return err
		}
		objects = append(objects, service.StoredObject{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk storage: %w", err)
	}
	return objects, nil
}
