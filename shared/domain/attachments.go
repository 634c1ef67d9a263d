package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// PendingFile is an uploaded file that passed parsing but is not stored yet.
// Data is owned by the request and closed by the handler.
type PendingFile struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
	Data        io.Reader
}

// AttachFileInfo is everything needed to put a single file into object storage.
// It is computed before the storage write and reused by compensation.
type AttachFileInfo struct {
	Uid         FileUid
	Name        string
	Path        FilePath
	Size        int64
	ContentType string
	Created     time.Time
	Data        io.Reader
}

// Attachment is the persisted form of an uploaded file.
type Attachment struct {
	Uid         FileUid   `json:"uid"`
	BucketName  string    `json:"bucket_name"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Path        FilePath  `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
}

// Attachments keeps upload order. Stored as a jsonb array.
type Attachments []Attachment

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *Attachments) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for attachments: %T", src)
	}
	return json.Unmarshal(data, a)
}

// Find returns the attachment with the given uid.
func (a Attachments) Find(uid FileUid) (*Attachment, bool) {
	for i := range a {
		if a[i].Uid == uid {
			return &a[i], true
		}
	}
	return nil, false
}
