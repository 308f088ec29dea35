package repositories

import (
	"testing"

	"chirper/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgerUserRepository(db)

	t.Run("create and get user", func(t *testing.T) {
		user := &models.User{
			Name:  "Alice",
			Email: "alice@example.com",
		}

		err := repo.Create(user)
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)

		retrieved, err := repo.GetByID(user.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Alice", retrieved.Name)
		assert.Equal(t, "alice@example.com", retrieved.Email)
	})

	t.Run("get by email", func(t *testing.T) {
		user, err := repo.GetByEmail("alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)

		_, err = repo.GetByEmail("nobody@example.com")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		user := &models.User{
			Name:  "Impostor",
			Email: "alice@example.com",
		}
		assert.Equal(t, ErrDuplicate, repo.Create(user))
	})

	t.Run("update image", func(t *testing.T) {
		user := &models.User{
			Name:  "Bob",
			Email: "bob@example.com",
		}
		require.NoError(t, repo.Create(user))

		updated, err := repo.UpdateImage(user.ID, "https://cdn.example.com/bob.png")
		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/bob.png", updated.Image)

		retrieved, err := repo.GetByID(user.ID)
		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/bob.png", retrieved.Image)
	})

	t.Run("update image on missing user", func(t *testing.T) {
		_, err := repo.UpdateImage("missing", "https://cdn.example.com/x.png")
		assert.Equal(t, ErrNotFound, err)
	})
}
