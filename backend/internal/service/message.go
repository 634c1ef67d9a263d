package service

import (
	"context"
	"io"

	"github.com/itchan-dev/attachstore/backend/internal/service/utils"
	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
)

type MessageService interface {
	Create(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error)
	Get(ctx context.Context, id domain.MsgId) (*domain.Message, error)
	Delete(ctx context.Context, id domain.MsgId) error
	GetAttachment(ctx context.Context, id domain.MsgId, uid domain.FileUid) (*domain.Attachment, io.ReadCloser, error)
}

// MessageStorage persists messages. Files are not its concern.
type MessageStorage interface {
	CreateMessage(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error)
	GetMessage(ctx context.Context, id domain.MsgId) (*domain.Message, error)
	// DeleteMessage returns the attachments the deleted message referenced.
	DeleteMessage(ctx context.Context, id domain.MsgId) (domain.Attachments, error)
}

type MessageValidator interface {
	Text(text domain.MsgText) error
}

type AttachmentValidator interface {
	Count(n int) error
	Files(files []*domain.PendingFile) error
}

type Message struct {
	storage     MessageStorage
	validator   MessageValidator
	limits      AttachmentValidator
	attachments *Attachments
	files       FileStorage
}

func NewMessage(storage MessageStorage, validator MessageValidator, limits AttachmentValidator, files FileStorage) *Message {
	return &Message{
		storage:     storage,
		validator:   validator,
		limits:      limits,
		attachments: NewAttachments(files),
		files:       files,
	}
}

// Create validates the message, uploads its files and saves it.
// If saving fails the uploaded files are deleted and the storage error is returned as is.
func (m *Message) Create(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error) {
	data.Text = utils.SanitizeText(data.Text)
	if err := m.validator.Text(data.Text); err != nil {
		return nil, err
	}
	if data.Text == "" && len(data.PendingFiles) == 0 {
		return nil, &errors.ValidationError{Message: "Message must have text or attachments"}
	}
	if err := m.limits.Count(len(data.PendingFiles)); err != nil {
		return nil, err
	}
	if err := m.limits.Files(data.PendingFiles); err != nil {
		return nil, err
	}

	uploaded, err := m.attachments.Upload(ctx, m.attachments.FileInfos(data.PendingFiles))
	if err != nil {
		return nil, err
	}
	data.Attachments = m.attachments.Records(uploaded)

	msg, err := m.storage.CreateMessage(ctx, data)
	if err != nil {
		m.attachments.Compensate(ctx, uploaded, reasonPersistFailed)
		return nil, err
	}
	return msg, nil
}

func (m *Message) Get(ctx context.Context, id domain.MsgId) (*domain.Message, error) {
	return m.storage.GetMessage(ctx, id)
}

// Delete removes the message first, then its files. File delete failures are logged only,
// the garbage collector picks such objects up later.
func (m *Message) Delete(ctx context.Context, id domain.MsgId) error {
	attachments, err := m.storage.DeleteMessage(ctx, id)
	if err != nil {
		return err
	}
	m.attachments.Remove(ctx, attachments)
	return nil
}

// GetAttachment opens a file of a message. The caller closes the reader.
func (m *Message) GetAttachment(ctx context.Context, id domain.MsgId, uid domain.FileUid) (*domain.Attachment, io.ReadCloser, error) {
	msg, err := m.storage.GetMessage(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	attachment, ok := msg.Attachments.Find(uid)
	if !ok {
		return nil, nil, &errors.ErrorWithStatusCode{Message: "Attachment not found", StatusCode: 404}
	}
	r, err := m.files.Get(ctx, attachment.Path)
	if err != nil {
		return nil, nil, err
	}
	return attachment, r, nil
}
