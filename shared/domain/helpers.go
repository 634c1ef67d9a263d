package domain

import (
	"fmt"
	"time"
)

// for debug
func (m *Message) String() string {
	s := fmt.Sprintf("[id:%d, text:%s, created:%s, attachments:[", m.Id, m.Text, m.CreatedAt.Format(time.StampMilli))
	for i, atch := range m.Attachments {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%+v", atch)
	}
	return s + "]]"
}

// Paths lists storage keys in upload order.
func (a Attachments) Paths() []FilePath {
	paths := make([]FilePath, 0, len(a))
	for _, atch := range a {
		paths = append(paths, atch.Path)
	}
	return paths
}
