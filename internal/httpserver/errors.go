package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/apperrors"
)

type ErrorResponse struct {
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
	Resolution string `json:"resolution,omitempty"`
}

type errorSpec struct {
	status     int
	code       string
	message    string
	resolution string
}

// Domain errors are mapped to the wire taxonomy exactly once, here.
var errorSpecs = []struct {
	err  error
	spec errorSpec
}{
	{apperrors.ErrMissingCredentials, errorSpec{http.StatusUnauthorized, "missing_credentials", "Authentication credentials missing", ""}},
	{apperrors.ErrInvalidToken, errorSpec{http.StatusUnauthorized, "invalid_token", "Invalid or expired token provided", ""}},
	{apperrors.ErrRevokedToken, errorSpec{http.StatusUnauthorized, "revoked_token", "Revoked token provided", ""}},
	{apperrors.ErrAccessTokenRequired, errorSpec{http.StatusUnauthorized, "access_token_required", "Access token required", ""}},
	{apperrors.ErrRefreshTokenRequired, errorSpec{http.StatusUnauthorized, "refresh_token_required", "Refresh token required", ""}},
	{apperrors.ErrInsufficientPermissions, errorSpec{http.StatusForbidden, "permission_denied", "Permission denied", ""}},
	{apperrors.ErrAccountNotVerified, errorSpec{http.StatusForbidden, "account_not_verified", "Account not yet verified", "Please check your email for verification details"}},
	{apperrors.ErrUserAlreadyExists, errorSpec{http.StatusBadRequest, "user_already_exists", "User with email already exists", ""}},
	{apperrors.ErrUserNotFound, errorSpec{http.StatusNotFound, "user_not_found", "User not found", ""}},
	{apperrors.ErrInvalidCredentials, errorSpec{http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", ""}},
	{apperrors.ErrPasswordNotMatch, errorSpec{http.StatusBadRequest, "password_not_match", "Passwords do not match", "Please check your password and confirmation password are the same"}},
	{apperrors.ErrBookNotFound, errorSpec{http.StatusNotFound, "book_not_found", "Book not found", ""}},
	{apperrors.ErrReviewNotFound, errorSpec{http.StatusNotFound, "review_not_found", "Review not found", ""}},
}

func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		for _, e := range errorSpecs {
			if errors.Is(err, e.err) {
				_ = c.JSON(e.spec.status, ErrorResponse{
					Message:    e.spec.message,
					ErrorCode:  e.spec.code,
					Resolution: e.spec.resolution,
				})
				return
			}
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, ErrorResponse{
				Message:   fmt.Sprint(he.Message),
				ErrorCode: "http_error",
			})
			return
		}

		logger.Error("internal_error", "error", err, "path", c.Path())
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message:   "Oops! Something went wrong",
			ErrorCode: "server_error",
		})
	}
}
