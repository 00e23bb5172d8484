package user

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("insufficient role")
)
