package service

import "errors"

var (
	ErrUnknownGroup        = errors.New("unknown department")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEngineerNotFound    = errors.New("engineer not found")
	ErrEmptyMessage        = errors.New("message requires text or a file attachment")
	ErrMessageNotFound     = errors.New("message not found")
	ErrEditWindowExpired   = errors.New("edit window expired")
	ErrDeleteWindowExpired = errors.New("delete window expired")
)
