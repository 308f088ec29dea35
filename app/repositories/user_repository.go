package repositories

import (
	"chirper/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user. The email index entry is written in the
// same transaction, so email uniqueness holds under concurrent creates.
func (r *BadgerUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.BeforeCreate()

	data, err := marshalEntity(user)
	if err != nil {
		return err
	}

	return runUpdate(r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(userEmailKey(user.Email))
		if err == nil {
			return ErrDuplicate
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(userEmailKey(user.Email), []byte(user.ID))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User

	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		return getEntity(txn, userKey(id), &user)
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateImage replaces the user's profile image URL
func (r *BadgerUserRepository) UpdateImage(id, image string) (*models.User, error) {
	var user models.User

	err := runUpdate(r.db, func(txn *badger.Txn) error {
		user = models.User{}
		if err := getEntity(txn, userKey(id), &user); err != nil {
			return err
		}

		user.Image = image
		data, err := marshalEntity(&user)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}
