package service

import (
	"bytes"
	"context"
	"net/http"
	"io"
	"sync"

	"github.com/itchan-dev/attachstore/shared/domain"
	internal_errors "github.com/itchan-dev/attachstore/shared/errors"
)

// --- Shared mocks ---

// MockFileStorage is an in-memory FileStorage that records every call.
type MockFileStorage struct {
	putFunc    func(ctx context.Context, file *domain.AttachFileInfo) error
	getFunc    func(ctx context.Context, path domain.FilePath) (io.ReadCloser, error)
	deleteFunc func(ctx context.Context, path domain.FilePath) error
	listFunc   func(ctx context.Context) ([]StoredObject, error)
	bucket     string

	mu          sync.Mutex
	putCalls    []domain.FilePath
	deleteCalls []domain.FilePath
	objects     map[domain.FilePath][]byte
}

func newMockFileStorage() *MockFileStorage {
	return &MockFileStorage{bucket: "attachments", objects: make(map[domain.FilePath][]byte)}
}

func (m *MockFileStorage) Put(ctx context.Context, file *domain.AttachFileInfo) error {
	m.mu.Lock()
	m.putCalls = append(m.putCalls, file.Path)
	m.mu.Unlock()

	if m.putFunc != nil {
		if err := m.putFunc(ctx, file); err != nil {
			return err
		}
	}
	data, err := io.ReadAll(file.Data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[file.Path] = data
	m.mu.Unlock()
	return nil
}

func (m *MockFileStorage) Get(ctx context.Context, path domain.FilePath) (io.ReadCloser, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Attachment not found", StatusCode: http.StatusNotFound}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockFileStorage) Delete(ctx context.Context, path domain.FilePath) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, path)
	m.mu.Unlock()

	if m.deleteFunc != nil {
		if err := m.deleteFunc(ctx, path); err != nil {
			return err
		}
	}
	m.mu.Lock()
	delete(m.objects, path)
	m.mu.Unlock()
	return nil
}

func (m *MockFileStorage) ListObjects(ctx context.Context) ([]StoredObject, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *MockFileStorage) BucketName() string {
	return m.bucket
}

func (m *MockFileStorage) stored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// MockMessageStorage mocks MessageStorage.
type MockMessageStorage struct {
	createFunc func(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error)
	getFunc    func(ctx context.Context, id domain.MsgId) (*domain.Message, error)
	deleteFunc func(ctx context.Context, id domain.MsgId) (domain.Attachments, error)

	mu          sync.Mutex
	createCalls []domain.MessageCreationData
}

func (m *MockMessageStorage) CreateMessage(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, data)
	m.mu.Unlock()

	if m.createFunc != nil {
		return m.createFunc(ctx, data)
	}
	return &domain.Message{Id: 1, Text: data.Text, Attachments: data.Attachments}, nil
}

func (m *MockMessageStorage) GetMessage(ctx context.Context, id domain.MsgId) (*domain.Message, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.Message{Id: id}, nil
}

func (m *MockMessageStorage) DeleteMessage(ctx context.Context, id domain.MsgId) (domain.Attachments, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil, nil
}

// MockMessageValidator mocks MessageValidator.
type MockMessageValidator struct {
	textFunc func(text domain.MsgText) error
}

func (m *MockMessageValidator) Text(text domain.MsgText) error {
	if m.textFunc != nil {
		return m.textFunc(text)
	}
	return nil
}

// --- Helpers ---

func pendingFiles(sizes ...int64) []*domain.PendingFile {
	files := make([]*domain.PendingFile, 0, len(sizes))
	for i, size := range sizes {
		files = append(files, &domain.PendingFile{
			Filename:  string(rune('a'+i)) + ".bin",
			SizeBytes: size,
			MimeType:  "application/octet-stream",
			Data:      bytes.NewReader(make([]byte, size)),
		})
	}
	return files
}
