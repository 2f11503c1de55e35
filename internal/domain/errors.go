package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized means the caller may not act on the requested chat.
// It is raised before any write happens.
var ErrUnauthorized = errors.New("unauthorized access to chat")

// ErrGuardRails means the question tripped content policy. The chat turn
// recovers from it locally by substituting a fixed answer.
var ErrGuardRails = errors.New("question rejected by guard rails")

// ErrEmptyQuestion means the question was empty once sanitized. Raised
// before any write happens.
var ErrEmptyQuestion = errors.New("question is empty")

// SensitiveDataError terminates a chat turn after the rejected message has
// been recorded. It carries the categories that matched.
type SensitiveDataError struct {
	Reasons []SensitiveDataType
}

func (e *SensitiveDataError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return fmt.Sprintf("sensitive data detected: %s", strings.Join(parts, ", "))
}
