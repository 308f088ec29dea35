package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/app/models"
)

func TestUserCreate(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates an account", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/users", map[string]string{
			"name":  "Alice",
			"email": "alice@example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var profile models.Profile
		decodeBody(t, rec, &profile)
		assert.NotEmpty(t, profile.ID)
		assert.Equal(t, "Alice", profile.Name)
		assert.Equal(t, "alice@example.com", profile.Email)

		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies, "signup should start a session")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/users", map[string]string{
			"name":  "Imposter",
			"email": "alice@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/users", map[string]string{
			"name":  "Bob",
			"email": "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserShow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")

	t.Run("returns the profile", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/users/"+alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Profile
		decodeBody(t, rec, &profile)
		assert.Equal(t, alice, profile.ID)
		assert.Equal(t, "Alice", profile.Name)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/users/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserUpdateImage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")
	bob := ts.seedUser(t, "Bob", "bob@example.com")

	t.Run("owner updates their picture", func(t *testing.T) {
		ts.loginAs(alice)
		rec := ts.do(t, http.MethodPut, "/api/users/"+alice+"/image", map[string]string{
			"image": "https://cdn.example.com/alice.png",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Profile
		decodeBody(t, rec, &profile)
		assert.Equal(t, "https://cdn.example.com/alice.png", profile.Image)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		ts.loginAs(bob)
		rec := ts.do(t, http.MethodPut, "/api/users/"+alice+"/image", map[string]string{
			"image": "https://cdn.example.com/bob.png",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.seedUser(t, "Alice", "alice@example.com")

	t.Run("login with known email", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/session", map[string]string{"email": "alice@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Profile
		decodeBody(t, rec, &profile)
		assert.Equal(t, alice, profile.ID)
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("login with unknown email is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/session", map[string]string{"email": "ghost@example.com"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("current session profile", func(t *testing.T) {
		ts.loginAs(alice)
		rec := ts.do(t, http.MethodGet, "/api/session", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Profile
		decodeBody(t, rec, &profile)
		assert.Equal(t, alice, profile.ID)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		rec := ts.do(t, http.MethodDelete, "/api/session", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
