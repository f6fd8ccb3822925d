package domain

import "errors"

var (
	ErrMissingLead     = errors.New("lead_id is required")
	ErrMissingAgent    = errors.New("agent_id is required")
	ErrInvalidOutcome  = errors.New("invalid call outcome")
	ErrInvalidDuration = errors.New("call duration must not be negative")
)
