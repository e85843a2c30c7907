package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReviewViaAPI(t *testing.T, env *testEnv, token, bookUID string) map[string]any {
	rec := env.do(t, http.MethodPost, "/api/v1/reviews/book/"+bookUID, token, echo.Map{
		"rating":      4,
		"review_text": "solid read",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}

func TestReviewCreate(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")
	book := createBookViaAPI(t, env, token)

	review := createReviewViaAPI(t, env, token, book["uid"].(string))
	assert.EqualValues(t, 4, review["rating"])
	assert.Equal(t, book["uid"], review["book_uid"])
	assert.NotEmpty(t, review["user_uid"])
}

func TestReviewCreate_MissingBook(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")

	rec := env.do(t, http.MethodPost, "/api/v1/reviews/book/7b0e6f9e-0000-4000-8000-000000000000", token, echo.Map{
		"rating":      4,
		"review_text": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "book_not_found", decodeBody(t, rec)["error_code"])
}

func TestReviewCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")
	book := createBookViaAPI(t, env, token)
	uid := book["uid"].(string)

	tests := []struct {
		name string
		body echo.Map
	}{
		{name: "rating too high", body: echo.Map{"rating": 6, "review_text": "x"}},
		{name: "rating missing", body: echo.Map{"review_text": "x"}},
		{name: "text missing", body: echo.Map{"rating": 3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/reviews/book/"+uid, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReviewListByBook(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")
	book := createBookViaAPI(t, env, token)
	uid := book["uid"].(string)
	createReviewViaAPI(t, env, token, uid)

	rec := env.do(t, http.MethodGet, "/api/v1/reviews/book/"+uid, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/reviews/book/7b0e6f9e-0000-4000-8000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "book_not_found", decodeBody(t, rec)["error_code"])
}

func TestReviewGet(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")
	book := createBookViaAPI(t, env, token)
	review := createReviewViaAPI(t, env, token, book["uid"].(string))

	rec := env.do(t, http.MethodGet, "/api/v1/reviews/"+review["uid"].(string), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, review["review_text"], decodeBody(t, rec)["review_text"])

	rec = env.do(t, http.MethodGet, "/api/v1/reviews/7b0e6f9e-0000-4000-8000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "review_not_found", decodeBody(t, rec)["error_code"])
}

func TestReviewDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.verifiedUserToken(t, "a@x.com")
	book := createBookViaAPI(t, env, token)
	review := createReviewViaAPI(t, env, token, book["uid"].(string))
	uid := review["uid"].(string)

	stranger := env.verifiedUserToken(t, "b@x.com")
	rec := env.do(t, http.MethodDelete, "/api/v1/reviews/"+uid, stranger, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "permission_denied", decodeBody(t, rec)["error_code"])

	rec = env.do(t, http.MethodDelete, "/api/v1/reviews/"+uid, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/reviews/"+uid, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
