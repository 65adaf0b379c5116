package user

import "errors"

var (
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrMissingIdentity         = errors.New("missing caller identity")
)
