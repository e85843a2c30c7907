package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

type fakeMailer struct {
	sent []mail.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type testEnv struct {
	e      *echo.Echo
	users  *repo.UserRepo
	codec  *tokens.Codec
	mailer *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Book{}, &models.Review{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := &repo.UserRepo{DB: db}
	books := &repo.BookRepo{DB: db}
	reviews := &repo.ReviewRepo{DB: db}

	codec := tokens.NewCodec([]byte("test-jwt-secret"))
	bl := blocklist.New(client, service.AccessTokenTTL)
	mailer := &fakeMailer{}

	authSvc := &service.AuthService{
		Users:     users,
		Codec:     codec,
		Blocklist: bl,
		Mailer:    mailer,
		Domain:    "localhost:8080",
	}
	bookSvc := &service.BookService{Books: books}
	reviewSvc := &service.ReviewService{Reviews: reviews, Books: books, Users: users}

	mw := &AuthMiddleware{Codec: codec, Blocklist: bl, Users: users}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	Register(e, &Deps{
		Auth:    &AuthHandler{Svc: authSvc, MW: mw},
		Books:   &BookHandler{Svc: bookSvc, MW: mw},
		Reviews: &ReviewHandler{Svc: reviewSvc, MW: mw},
		MW:      mw,
	})

	return &testEnv{e: e, users: users, codec: codec, mailer: mailer}
}

func (env *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (env *testEnv) signup(t *testing.T, email string) {
	rec := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", echo.Map{
		"username": "tester",
		"email":    email,
		"password": "pw1secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(t *testing.T, email, password string) (access, refresh string) {
	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", echo.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	access, _ = body["access_token"].(string)
	refresh, _ = body["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

// verifiedUserToken signs up a user, marks it verified directly and logs in.
func (env *testEnv) verifiedUserToken(t *testing.T, email string) string {
	env.signup(t, email)
	require.NoError(t, env.users.MarkVerified(context.Background(), email))
	access, _ := env.login(t, email, "pw1secret")
	return access
}
