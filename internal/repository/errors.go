package repository

import "errors"

var (
	// ErrEngineerNotFound is returned when no engineer matches the query.
	ErrEngineerNotFound = errors.New("engineer not found")

	// ErrMessageNotFound is returned when a chat message id does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEditWindowExpired is returned when an edit is attempted more than
	// five minutes after the message was created.
	ErrEditWindowExpired = errors.New("edit window expired")

	// ErrDeleteWindowExpired is returned when a delete is attempted more
	// than five minutes after the message was created.
	ErrDeleteWindowExpired = errors.New("delete window expired")
)
