package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
	MW  *AuthMiddleware
}

type signupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type confirmResetRequest struct {
	NewPassword        string `json:"new_password" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Svc.Signup(c.Request().Context(), service.SignupInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Verify(c echo.Context) error {
	if err := h.Svc.VerifyEmail(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account verified successfully",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user":          res.User,
	})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	claims := ClaimsFrom(c)

	accessToken, err := h.Svc.Refresh(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	claims := ClaimsFrom(c)

	if err := h.Svc.Logout(c.Request().Context(), claims); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.MW.CurrentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Please check your email for instructions to reset your password",
	})
}

func (h *AuthHandler) ConfirmResetPassword(c echo.Context) error {
	var req confirmResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.Svc.ConfirmPasswordReset(c.Request().Context(), c.Param("token"), req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password reset successfully",
	})
}
