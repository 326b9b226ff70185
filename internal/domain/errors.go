package domain

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrPlanRestricted   = errors.New("plan restricted")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrGenerationFailed = errors.New("generation failed")
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failed")
	ErrOversizedInput   = errors.New("input too large")
)
