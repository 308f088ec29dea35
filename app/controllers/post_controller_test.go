package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/app/models"
)

func TestPostCreate(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")

	t.Run("requires login", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "hi"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	ts.loginAs(alice)

	t.Run("creates a post", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "  hello  "})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var post models.HydratedPost
		decodeBody(t, rec, &post)
		assert.Equal(t, "hello", *post.Content)
		assert.Equal(t, alice, post.Author.ID)
		assert.Equal(t, "Alice", post.Author.Name)
		assert.NotEmpty(t, post.ID)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects overlong content", func(t *testing.T) {
		long := strings.Repeat("x", models.MaxContentLength+1)
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": long})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", "not-an-object")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostIndex(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")
	ts.loginAs(alice)

	for _, content := range []string{"first", "second", "third"} {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": content})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("lists newest first", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Posts  []*models.HydratedPost `json:"posts"`
			Limit  int                    `json:"limit"`
			Offset int                    `json:"offset"`
		}
		decodeBody(t, rec, &body)
		require.Len(t, body.Posts, 3)
		assert.Equal(t, "third", *body.Posts[0].Content)
		assert.Equal(t, "first", *body.Posts[2].Content)
		assert.Equal(t, 50, body.Limit)
	})

	t.Run("honors limit and offset", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts?limit=1&offset=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Posts []*models.HydratedPost `json:"posts"`
		}
		decodeBody(t, rec, &body)
		require.Len(t, body.Posts, 1)
		assert.Equal(t, "second", *body.Posts[0].Content)
	})

	t.Run("rejects non-numeric limit", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts?limit=lots", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostShow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")
	ts.loginAs(alice)

	rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "parent"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var parent models.HydratedPost
	decodeBody(t, rec, &parent)

	rec = ts.do(t, http.MethodPost, "/api/posts/"+parent.ID+"/comments", map[string]string{"content": "reply"})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("returns post with replies", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts/"+parent.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var post models.HydratedPost
		decodeBody(t, rec, &post)
		assert.Equal(t, parent.ID, post.ID)
		require.Len(t, post.Comments, 1)
		assert.Equal(t, "reply", *post.Comments[0].Content)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts/no-such-post", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostEdit(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")
	bob := ts.seedUser(t, "Bob", "bob@example.com")

	ts.loginAs(alice)
	rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "draft"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post models.HydratedPost
	decodeBody(t, rec, &post)

	t.Run("owner can edit", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/api/posts/"+post.ID, map[string]string{"content": "final"})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.HydratedPost
		decodeBody(t, rec, &updated)
		assert.Equal(t, "final", *updated.Content)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		ts.loginAs(bob)
		rec := ts.do(t, http.MethodPut, "/api/posts/"+post.ID, map[string]string{"content": "hijack"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestPostDelete(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")
	bob := ts.seedUser(t, "Bob", "bob@example.com")

	ts.loginAs(alice)
	rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"content": "ephemeral"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post models.HydratedPost
	decodeBody(t, rec, &post)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		ts.loginAs(bob)
		rec := ts.do(t, http.MethodDelete, "/api/posts/"+post.ID, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		ts.loginAs(alice)
		rec := ts.do(t, http.MethodDelete, "/api/posts/"+post.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(t, http.MethodGet, "/api/posts/"+post.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
