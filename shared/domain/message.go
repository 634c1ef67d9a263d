package domain

import "time"

type Message struct {
	Id          MsgId
	Text        MsgText
	CreatedAt   time.Time
	Attachments Attachments
}

type MessageCreationData struct {
	Text         MsgText
	PendingFiles []*PendingFile
	// filled after files are uploaded, before the message is persisted
	Attachments Attachments
}
