package utils

import (
	"fmt"
	"unicode/utf8"

	"github.com/itchan-dev/attachstore/shared/domain"
	"github.com/itchan-dev/attachstore/shared/errors"
)

const MaxTextLength = 10_000

type MessageValidator struct {
	maxLength int
}

func NewMessageValidator() *MessageValidator {
	return &MessageValidator{maxLength: MaxTextLength}
}

// Text checks the sanitized message text. Empty text is fine, a message may consist of files only.
func (e *MessageValidator) Text(text domain.MsgText) error {
	if utf8.RuneCountInString(text) > e.maxLength {
		return &errors.ValidationError{Message: fmt.Sprintf("Text is too long: max %d characters", e.maxLength)}
	}
	return nil
}
