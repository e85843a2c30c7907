package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookly/internal/apperrors"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

// Token lifetime policy. The blocklist TTL must match AccessTokenTTL so a
// revocation entry never expires before the token it blocks.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 48 * time.Hour
	ActionTokenTTL  = 24 * time.Hour

	mailTimeout = 5 * time.Second
)

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type AuthService struct {
	Users     *repo.UserRepo
	Codec     *tokens.Codec
	Blocklist *blocklist.Blocklist
	Mailer    Mailer
	Domain    string
}

type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: pwHash,
		IsVerified:   false,
		Role:         models.RoleUser,
	}

	if err := s.Users.CreateIfNotExists(ctx, user); err != nil {
		return nil, err
	}

	// The user record is committed regardless of what happens to the
	// verification email.
	token, err := s.Codec.IssueAction(user.Email, tokens.PurposeEmailVerification, ActionTokenTTL)
	if err != nil {
		l.Error("verification_token_error", "error", err)
		return user, nil
	}
	s.sendMail(ctx, mail.VerificationEmail(s.Domain, user.Email, token))

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	claims := tokens.UserClaims{Email: user.Email, UserUID: user.UID.String()}

	accessToken, err := s.Codec.Issue(claims, AccessTokenTTL, false)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.Codec.Issue(claims, RefreshTokenTTL, true)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	logging.FromContext(ctx).Info("login_successful", "svc", "auth.login", "user_uid", user.UID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh mints a new access token from validated refresh-token claims.
// Expiry is re-checked against the wall clock even though the codec
// already rejected expired tokens.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.SessionClaims) (string, error) {
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
		return "", apperrors.ErrInvalidToken
	}

	accessToken, err := s.Codec.Issue(claims.User, AccessTokenTTL, false)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *tokens.SessionClaims) error {
	return s.Blocklist.Revoke(ctx, claims.ID)
}

func (s *AuthService) VerifyEmail(ctx context.Context, tokenStr string) error {
	claims, err := s.Codec.DecodeAction(tokenStr, tokens.PurposeEmailVerification)
	if err != nil {
		return fmt.Errorf("decode verification token: %w", err)
	}

	return s.Users.MarkVerified(ctx, claims.Email)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset")

	if _, err := s.Users.ByEmail(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Respond identically whether or not the address is known.
			l.Info("reset_requested_for_unknown_email")
			return nil
		}
		return err
	}

	token, err := s.Codec.IssueAction(email, tokens.PurposePasswordReset, ActionTokenTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	s.sendMail(ctx, mail.PasswordResetEmail(s.Domain, email, token))

	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperrors.ErrPasswordNotMatch
	}

	claims, err := s.Codec.DecodeAction(tokenStr, tokens.PurposePasswordReset)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.Users.UpdatePasswordHash(ctx, claims.Email, pwHash)
}

func (s *AuthService) sendMail(ctx context.Context, msg mail.Message) {
	if s.Mailer == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	if err := s.Mailer.Send(sendCtx, msg); err != nil {
		logging.FromContext(ctx).Error("mail_publish_error", "error", err)
	}
}
