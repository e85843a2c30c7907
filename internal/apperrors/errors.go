package apperrors

import "errors"

var (
	ErrMissingCredentials      = errors.New("authentication credentials missing")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrRevokedToken            = errors.New("revoked token")
	ErrAccessTokenRequired     = errors.New("access token required")
	ErrRefreshTokenRequired    = errors.New("refresh token required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAccountNotVerified      = errors.New("account not verified")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordNotMatch   = errors.New("passwords do not match")

	ErrBookNotFound   = errors.New("book not found")
	ErrReviewNotFound = errors.New("review not found")
)
