package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"chirper/app/auth"
	"chirper/app/middleware"
	"chirper/app/repositories/mock"
	"chirper/app/services"
)

// stubResolver injects a fixed caller identity, so handler tests can
// switch users without going through the cookie store.
type stubResolver struct {
	userID string
}

func (s *stubResolver) Resolve(r *http.Request) (string, bool) {
	return s.userID, s.userID != ""
}

type testServer struct {
	router   *mux.Router
	resolver *stubResolver
	users    *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	postRepo := mock.NewPostRepository()
	userRepo := mock.NewUserRepository()
	feed := services.NewFeedService(postRepo, userRepo)
	posts := services.NewPostService(postRepo, feed)
	interactions := services.NewInteractionService(postRepo, feed)
	users := services.NewUserService(userRepo)

	resolver := &stubResolver{}
	sessions := auth.NewSessionResolver([]byte("test-session-key"))

	pc := NewPostController(posts, feed)
	ic := NewInteractionController(interactions, feed)
	uc := NewUserController(users, sessions)
	sc := NewSessionController(users, sessions)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON, middleware.WithUser(resolver))

	api.HandleFunc("/posts", pc.Create).Methods(http.MethodPost)
	api.HandleFunc("/posts", pc.Index).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", pc.Show).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", pc.Edit).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id}", pc.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/like", ic.Like).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/repost", ic.Repost).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments", ic.CreateComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments", ic.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/users", uc.Create).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", uc.Show).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/image", uc.UpdateImage).Methods(http.MethodPut)
	api.HandleFunc("/session", sc.Create).Methods(http.MethodPost)
	api.HandleFunc("/session", sc.Show).Methods(http.MethodGet)
	api.HandleFunc("/session", sc.Delete).Methods(http.MethodDelete)

	return &testServer{router: router, resolver: resolver, users: users}
}

// loginAs makes subsequent requests carry the given user id.
func (ts *testServer) loginAs(userID string) {
	ts.resolver.userID = userID
}

func (ts *testServer) seedUser(t *testing.T, name, email string) string {
	t.Helper()
	profile, err := ts.users.CreateUser(name, email, "")
	require.NoError(t, err)
	return profile.ID
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}
