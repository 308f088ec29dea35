package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix      = "post:"
	UserKeyPrefix      = "user:"
	UserEmailKeyPrefix = "useremail:"

	// maxTxnRetries bounds retries of transactions aborted by
	// Badger's conflict detection. Every retry round commits at least
	// one contender, so this accommodates heavy contention on a single
	// post.
	maxTxnRetries = 32
)

// runUpdate runs fn in a read-write transaction, retrying when the
// commit is aborted by a conflicting concurrent transaction. This is
// what makes the set mutations on likes/repostedBy behave as atomic
// add-if-absent / remove-if-present under concurrent callers.
func runUpdate(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// postKey builds the storage key for a post id.
func postKey(id string) []byte {
	return []byte(PostKeyPrefix + id)
}

// userKey builds the storage key for a user id.
func userKey(id string) []byte {
	return []byte(UserKeyPrefix + id)
}

// userEmailKey builds the storage key of the email->id index entry.
func userEmailKey(email string) []byte {
	return []byte(UserEmailKeyPrefix + email)
}

// addToSet appends member to set if absent. Reports whether the set changed.
func addToSet(set []string, member string) ([]string, bool) {
	for _, m := range set {
		if m == member {
			return set, false
		}
	}
	return append(set, member), true
}

// removeFromSet removes member from set if present. Reports whether the set changed.
func removeFromSet(set []string, member string) ([]string, bool) {
	for i, m := range set {
		if m == member {
			return append(set[:i], set[i+1:]...), true
		}
	}
	return set, false
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
