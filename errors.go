package sessiongate

import "errors"

// ErrAccountNotFound is the error stores return for unknown accounts
var ErrAccountNotFound = errors.New("account not found")

// ErrDuplicateUsername is the error signup returns for a taken username
var ErrDuplicateUsername = errors.New("username already in use")

// ErrSessionNotFound is the error for unknown or destroyed session identifiers
var ErrSessionNotFound = errors.New("session not found")

// ErrMismatchedHashAndPassword is the error for a failed credential check
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrNoEmptyString is the error for required string arguments
var ErrNoEmptyString = errors.New("value should not be an empty string")
