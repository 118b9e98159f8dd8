// AngelaMos | 2026
// handler_test.go

package community

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/middleware"
)

type stubVerifier map[string]*middleware.SessionClaims

func (s stubVerifier) VerifyToken(_ context.Context, token string) (*middleware.SessionClaims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, core.ErrTokenInvalid
}

var testSessions = stubVerifier{
	"alice-token": {UserID: "user-alice", Name: "Alice", Role: middleware.RoleUser, Avatar: "/alice.png"},
	"bob-token":   {UserID: "user-bob", Name: "Bob", Role: middleware.RoleUser},
}

func newTestRouter() http.Handler {
	svc := NewService(NewMemoryRepository(), nil, "/avatar.png")
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(testSessions, "token"), nil)
	return r
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorResponse {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandlerFeedFlow(t *testing.T) {
	r := newTestRouter()

	created := call(r, http.MethodPost, "/community/posts", "alice-token", `{"content":"  first post  "}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var post PostResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &post))
	require.Equal(t, "first post", post.Content)
	require.Equal(t, Author{ID: "user-alice", Name: "Alice", Avatar: "/alice.png"}, post.User)

	liked := call(r, http.MethodPost, "/community/posts/"+post.ID+"/like", "bob-token", "")
	require.Equal(t, http.StatusOK, liked.Code)
	require.JSONEq(t, `{"id":"`+post.ID+`","likes":1}`, liked.Body.String())

	again := call(r, http.MethodPost, "/community/posts/"+post.ID+"/like", "bob-token", "")
	require.Equal(t, http.StatusBadRequest, again.Code)
	require.Equal(t, "Already liked", decodeError(t, again).Message)

	commented := call(r, http.MethodPost, "/community/posts/"+post.ID+"/comment", "bob-token", `{"content":"nice"}`)
	require.Equal(t, http.StatusCreated, commented.Code)

	list := call(r, http.MethodGet, "/community/posts", "", "")
	require.Equal(t, http.StatusOK, list.Code)

	var posts []PostResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	require.Equal(t, 1, posts[0].Likes)
	require.Equal(t, "/avatar.png", posts[0].Comments[0].User.Avatar)
	require.Contains(t, list.Body.String(), `"_id"`)
}

func TestHandlerWritesRequireSession(t *testing.T) {
	r := newTestRouter()
	id := uuid.NewString()

	tests := []struct {
		name string
		path string
		body string
	}{
		{"create", "/community/posts", `{"content":"x"}`},
		{"like", "/community/posts/" + id + "/like", ""},
		{"comment on missing post", "/community/posts/" + id + "/comment", `{"content":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(r, http.MethodPost, tt.path, "", tt.body)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHandlerErrors(t *testing.T) {
	r := newTestRouter()
	missing := uuid.NewString()

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"empty content", "/community/posts", `{"content":"   "}`, http.StatusBadRequest, "Content required"},
		{"malformed body", "/community/posts", `{`, http.StatusBadRequest, "Invalid request body"},
		{"too long", "/community/posts", `{"content":"` + strings.Repeat("a", 2001) + `"}`, http.StatusBadRequest, "content must be at most 2000"},
		{"like missing", "/community/posts/" + missing + "/like", "", http.StatusNotFound, "Not found"},
		{"like malformed id", "/community/posts/abc/like", "", http.StatusNotFound, "Not found"},
		{"comment missing", "/community/posts/" + missing + "/comment", `{"content":"x"}`, http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(r, http.MethodPost, tt.path, "alice-token", tt.body)
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.message, decodeError(t, rec).Message)
		})
	}
}
