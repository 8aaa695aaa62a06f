package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrGroupNameTaken     = errors.New("group name already exists")
	ErrGroupInUse         = errors.New("group is referenced by schedule entries or users")
	ErrInvalidTime        = errors.New("invalid time, expected HH:MM")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
)
