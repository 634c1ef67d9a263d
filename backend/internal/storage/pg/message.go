package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/itchan-dev/attachstore/backend/internal/service"
	"github.com/itchan-dev/attachstore/shared/domain"
	internal_errors "github.com/itchan-dev/attachstore/shared/errors"
)

var (
	_ service.MessageStorage = (*Storage)(nil)
	_ service.GCStorage      = (*Storage)(nil)
)

func notFound() error {
	return &internal_errors.ErrorWithStatusCode{Message: "Message not found", StatusCode: 404}
}

// Saves message with its attachment list to db
func (s *Storage) CreateMessage(ctx context.Context, data domain.MessageCreationData) (*domain.Message, error) {
	attachments := data.Attachments
	if attachments == nil {
		attachments = domain.Attachments{}
	}
	msg := domain.Message{
		Text:        data.Text,
		CreatedAt:   time.Now().UTC().Round(time.Microsecond), // database anyway round to microsecond
		Attachments: attachments,
	}
	err := s.q.QueryRowContext(ctx, `
	INSERT INTO messages(text, created, attachments)
	VALUES($1, $2, $3)
	RETURNING id`,
		msg.Text, msg.CreatedAt, msg.Attachments).Scan(&msg.Id)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Storage) GetMessage(ctx context.Context, id domain.MsgId) (*domain.Message, error) {
	var msg domain.Message
	err := s.q.QueryRowContext(ctx, `
	SELECT id, text, created, attachments
	FROM messages
	WHERE id = $1`, id).Scan(&msg.Id, &msg.Text, &msg.CreatedAt, &msg.Attachments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound()
		}
		return nil, err
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return &msg, nil
}

// DeleteMessage removes the row and returns the attachments it referenced.
func (s *Storage) DeleteMessage(ctx context.Context, id domain.MsgId) (domain.Attachments, error) {
	var attachments domain.Attachments
	err := s.q.QueryRowContext(ctx, `
	DELETE FROM messages
	WHERE id = $1
	RETURNING attachments`, id).Scan(&attachments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound()
		}
		return nil, err
	}
	return attachments, nil
}

// GetAllFilePaths returns the storage path of every attachment of every message.
func (s *Storage) GetAllFilePaths(ctx context.Context) ([]domain.FilePath, error) {
	rows, err := s.q.QueryContext(ctx, `
	SELECT a->>'path'
	FROM messages, jsonb_array_elements(attachments) AS a`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []domain.FilePath
	for rows.Next() {
		var p domain.FilePath
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
