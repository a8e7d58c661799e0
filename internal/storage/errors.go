package storage

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrTaskNotFound      = errors.New("task not found")
	ErrOperationNotFound = errors.New("operation not found")
)

// ErrConflict is returned when a write lost a lock race and may be retried.
var ErrConflict = errors.New("concurrent update conflict")
