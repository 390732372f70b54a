package domain

import "errors"

var (
	// ErrInvalidFormat is returned when a submission does not carry a responses array.
	ErrInvalidFormat = errors.New("invalid responses format")
	// ErrStorageUnavailable indicates the backing store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorageWriteFailed indicates a row write was rejected by the store.
	ErrStorageWriteFailed = errors.New("storage write failed")
	// ErrInvalidCredentials is returned by the login check on a username/password mismatch.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound is returned by user stores for unknown usernames.
	ErrUserNotFound = errors.New("user not found")
)
