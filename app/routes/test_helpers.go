package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chirper/app/auth"
	"chirper/app/repositories"
)

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// testClient talks to a running test server and keeps session cookies
// between requests, like a browser would.
type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func setupTestServer(t *testing.T) *testClient {
	t.Helper()

	db := setupTestDB(t)
	postRepo := repositories.NewBadgerPostRepository(db)
	userRepo := repositories.NewBadgerUserRepository(db)
	sessions := auth.NewSessionResolver([]byte("test-session-key"))

	router := SetupRoutes(postRepo, userRepo, sessions)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:      t,
		base:   server.URL,
		client: &http.Client{Jar: jar},
	}
}

func (c *testClient) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	require.NoError(c.t, err)
	return res
}

func decodeResponse(t *testing.T, res *http.Response, dst interface{}) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
}
