package domain

import "errors"

var (
	// ErrValidation marks user-correctable input problems.
	ErrValidation = errors.New("invalid input")
	// ErrConfig marks missing or invalid operator configuration.
	ErrConfig = errors.New("configuration error")
	// ErrBackend marks an inference failure, local or external.
	ErrBackend = errors.New("backend error")
	// ErrRateLimited is the signal a provider adapter wraps when a single call was throttled.
	ErrRateLimited = errors.New("rate limited")
	// ErrRateLimitExhausted means every external token was tried or is cooling down.
	ErrRateLimitExhausted = errors.New("rate limit exhausted")
	ErrPoolExhausted      = errors.New("all tokens are cooling down")
	ErrPersistence        = errors.New("persistence error")
	ErrUserNotFound       = errors.New("user not found")
)
