package tracker

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidStatus     = errors.New("status not allowed for this mold")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrForbidden         = errors.New("not allowed for this role")
)
