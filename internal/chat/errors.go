package chat

import "errors"

var (
	// ErrValidation is returned when a required identifier or the message
	// body is missing.
	ErrValidation = errors.New("missing or invalid required field")
	// ErrConversationClosed is returned when a write is attempted against
	// a closed conversation.
	ErrConversationClosed = errors.New("this chat is closed")
	// ErrPermission is returned when a non-participant without admin
	// privilege attempts a privileged action.
	ErrPermission = errors.New("you do not have permission to perform this action")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
