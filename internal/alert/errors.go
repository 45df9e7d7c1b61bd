package alert

import "errors"

// Alert workflow errors
var (
	ErrNoRecipients     = errors.New("no rescue team selected")
	ErrDispatchFailed   = errors.New("alert dispatch failed")
	ErrDataUnavailable  = errors.New("no accident data available")
	ErrDuplicateContact = errors.New("duplicate rescue team id")
	ErrInvalidContact   = errors.New("rescue team id is required")
)
