package reminders

import "errors"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("not found")
)
