package domain

import "github.com/google/uuid"

type (
	MsgId   = int64
	MsgText = string

	FileUid = uuid.UUID
	// storage key of an object inside its bucket
	FilePath = string
)
