package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Book{}, &models.Review{}))
	return db
}

type fakeMailer struct {
	sent []mail.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeMailer) {
	db := newTestDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mailer := &fakeMailer{}
	svc := &AuthService{
		Users:     &repo.UserRepo{DB: db},
		Codec:     tokens.NewCodec([]byte("test-jwt-secret")),
		Blocklist: blocklist.New(client, AccessTokenTTL),
		Mailer:    mailer,
		Domain:    "localhost:8080",
	}

	return svc, mailer
}

func signupTestUser(t *testing.T, svc *AuthService, email string) *models.User {
	user, err := svc.Signup(context.Background(), SignupInput{
		Username:  "tester",
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "pw1secret",
	})
	require.NoError(t, err)
	return user
}

func decodeSession(t *testing.T, svc *AuthService, token string) *tokens.SessionClaims {
	claims, err := svc.Codec.Decode(token)
	require.NoError(t, err)
	return claims
}

func expiredSessionClaims(user tokens.UserClaims, refresh bool) *tokens.SessionClaims {
	return &tokens.SessionClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ID:        "expired-jti",
		},
	}
}
