package domain

import "errors"

var (
	ErrNotFound          = errors.New("case not found")
	ErrInvalidStatus     = errors.New("invalid case status")
	ErrInvalidClientName = errors.New("client name is required")
	ErrInvalidAgent      = errors.New("assigned agent is not a retention agent")
	ErrNoCaseIDs         = errors.New("no case ids given")
)
