package handler

import (
	"context"
	"io"
	"sync"

	"github.com/itchan-dev/attachstore/shared/domain"
)

type MockMessageService struct {
	CreateFunc        func(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error)
	GetFunc           func(ctx context.Context, id domain.MsgId) (*domain.Message, error)
	DeleteFunc        func(ctx context.Context, id domain.MsgId) error
	GetAttachmentFunc func(ctx context.Context, id domain.MsgId, uid domain.FileUid) (*domain.Attachment, io.ReadCloser, error)

	mu          sync.Mutex
	createCalls []domain.MessageCreationData
}

func (m *MockMessageService) Create(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, data)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return &domain.Message{Id: 1, Text: data.Text}, nil
}

func (m *MockMessageService) Get(ctx context.Context, id domain.MsgId) (*domain.Message, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Message{Id: id}, nil
}

func (m *MockMessageService) Delete(ctx context.Context, id domain.MsgId) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMessageService) GetAttachment(ctx context.Context, id domain.MsgId, uid domain.FileUid) (*domain.Attachment, io.ReadCloser, error) {
	if m.GetAttachmentFunc != nil {
		return m.GetAttachmentFunc(ctx, id, uid)
	}
	return nil, nil, nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
