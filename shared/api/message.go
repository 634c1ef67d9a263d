package api

import (
	"time"

	"github.com/itchan-dev/attachstore/shared/domain"
)

// Request DTOs

// CreateMessageRequest is the "json" field of a multipart message upload.
// Text may be empty when files are attached.
type CreateMessageRequest struct {
	Text string `json:"text" validate:"max=10000"`
}

// Response DTOs

// AttachmentResponse is the client view of a stored file.
// Bucket and storage path stay on the server.
type AttachmentResponse struct {
	Uid         string    `json:"uid"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Created     time.Time `json:"created"`
}

type MessageResponse struct {
	Id          int64                `json:"id"`
	Text        string               `json:"text"`
	CreatedAt   time.Time            `json:"created_at"`
	Attachments []AttachmentResponse `json:"attachments"`
}

func NewAttachmentResponse(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		Uid:         a.Uid.String(),
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		Created:     a.Created,
	}
}

func NewMessageResponse(msg *domain.Message) MessageResponse {
	attachments := make([]AttachmentResponse, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, NewAttachmentResponse(a))
	}
	return MessageResponse{
		Id:          msg.Id,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
		Attachments: attachments,
	}
}
