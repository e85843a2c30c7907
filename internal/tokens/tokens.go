package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Action token purposes for the email flows. An action token is never
// accepted where a session token is expected and vice versa.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

type UserClaims struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
}

// SessionClaims is the decoded form of an access or refresh token:
// {user: {email, user_uid}, exp, jti, refresh}.
type SessionClaims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

// ActionClaims is carried by the purpose-built tokens mailed to users
// for email verification and password reset.
type ActionClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single process-wide secret.
// It knows nothing about revocation or roles.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

func (c *Codec) Issue(user UserClaims, ttl time.Duration, refresh bool) (string, error) {
	claims := SessionClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Decode(tokenStr string) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyFunc)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.User.Email == "" || claims.User.UserUID == "" {
		return nil, errors.New("not a session token")
	}
	return &claims, nil
}

func (c *Codec) IssueAction(email, purpose string, ttl time.Duration) (string, error) {
	claims := ActionClaims{
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) DecodeAction(tokenStr, purpose string) (*ActionClaims, error) {
	var claims ActionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyFunc)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.Email == "" || claims.Purpose != purpose {
		return nil, errors.New("wrong token purpose")
	}
	return &claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("unexpected sign method")
	}
	return c.secret, nil
}
