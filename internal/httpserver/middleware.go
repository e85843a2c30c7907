package httpserver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

type TokenKind int

const (
	KindAccess TokenKind = iota
	KindRefresh
)

const (
	claimsContextKey = "sessionClaims"
	userContextKey   = "currentUser"
)

type AuthMiddleware struct {
	Codec     *tokens.Codec
	Blocklist *blocklist.Blocklist
	Users     *repo.UserRepo
}

// RequireToken runs the ordered bearer checks: extract, decode, revocation,
// kind. The order is fixed and short-circuits on the first failure.
func (m *AuthMiddleware) RequireToken(kind TokenKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			raw := bearerToken(c)
			if raw == "" {
				return apperrors.ErrMissingCredentials
			}

			claims, err := m.Codec.Decode(raw)
			if err != nil {
				return apperrors.ErrInvalidToken
			}

			revoked, err := m.Blocklist.IsRevoked(ctx, claims.ID)
			if err != nil {
				return fmt.Errorf("revocation lookup: %w", err)
			}
			if revoked {
				return apperrors.ErrRevokedToken
			}

			if kind == KindAccess && claims.Refresh {
				return apperrors.ErrAccessTokenRequired
			}
			if kind == KindRefresh && !claims.Refresh {
				return apperrors.ErrRefreshTokenRequired
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

func (m *AuthMiddleware) RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := m.CurrentUser(c)
			if err != nil {
				return err
			}
			if !slices.Contains(roles, user.Role) {
				return apperrors.ErrInsufficientPermissions
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := m.CurrentUser(c)
			if err != nil {
				return err
			}
			if !user.IsVerified {
				return apperrors.ErrAccountNotVerified
			}
			return next(c)
		}
	}
}

// CurrentUser resolves the full user record behind the validated claims,
// caching it on the request context.
func (m *AuthMiddleware) CurrentUser(c echo.Context) (*models.User, error) {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u, nil
	}

	claims := ClaimsFrom(c)
	if claims == nil {
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := m.Users.ByEmail(c.Request().Context(), claims.User.Email)
	if err != nil {
		return nil, err
	}

	c.Set(userContextKey, user)
	return user, nil
}

func ClaimsFrom(c echo.Context) *tokens.SessionClaims {
	if claims, ok := c.Get(claimsContextKey).(*tokens.SessionClaims); ok {
		return claims
	}
	return nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
