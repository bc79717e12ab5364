package domain

import "errors"

// Input validation errors
var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrInvalidPassword    = errors.New("password must be exactly 6 digits")
)

// Registration errors
var (
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	ErrPhoneNotVerified       = errors.New("phone number not verified")
	ErrAccountNotFound        = errors.New("account not found")
)

// Verification code errors
var (
	ErrNoActiveCode      = errors.New("no active verification code")
	ErrCodeExpired       = errors.New("verification code has expired")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrAttemptsExhausted = errors.New("maximum verification attempts exceeded")
	ErrResendThrottled   = errors.New("verification code resend throttled")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Collaborator errors
var (
	ErrSmsDispatchFailed  = errors.New("sms dispatch failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
