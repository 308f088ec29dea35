package repositories

import (
	"sort"
	"time"

	"chirper/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.BeforeCreate()

	data, err := marshalEntity(post)
	if err != nil {
		return err
	}

	return runUpdate(r.db, func(txn *badger.Txn) error {
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListFeed retrieves a page of posts ordered newest-first
func (r *BadgerPostRepository) ListFeed(limit, offset int) ([]*models.Post, error) {
	posts, err := r.scan(func(p *models.Post) bool { return true })
	if err != nil {
		return nil, err
	}
	return pagePosts(posts, limit, offset), nil
}

// ListByParent retrieves the replies to a post, newest-first
func (r *BadgerPostRepository) ListByParent(parentID string) ([]*models.Post, error) {
	return r.scan(func(p *models.Post) bool { return p.ParentPost == parentID })
}

// FindPlainRepost looks up the content-less repost of originalID by authorID
func (r *BadgerPostRepository) FindPlainRepost(authorID, originalID string) (*models.Post, error) {
	posts, err := r.scan(func(p *models.Post) bool {
		return p.AuthorID == authorID && p.OriginalPost == originalID && !p.HasContent()
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return posts[0], nil
}

// UpdateContent replaces the post's content and bumps UpdatedAt
func (r *BadgerPostRepository) UpdateContent(id string, content *string) (*models.Post, error) {
	return r.mutate(id, func(p *models.Post) bool {
		p.Content = content
		return true
	})
}

// Delete deletes a post by ID. References held by other posts are left
// in place.
func (r *BadgerPostRepository) Delete(id string) error {
	return runUpdate(r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(postKey(id))
	})
}

// AppendComment records commentID in the parent's ordered reply list
func (r *BadgerPostRepository) AppendComment(parentID, commentID string) error {
	_, err := r.mutate(parentID, func(p *models.Post) bool {
		p.Comments = append(p.Comments, commentID)
		return true
	})
	return err
}

// AddLike adds userID to the post's like set if absent
func (r *BadgerPostRepository) AddLike(postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) bool {
		var changed bool
		p.Likes, changed = addToSet(p.Likes, userID)
		return changed
	})
}

// RemoveLike removes userID from the post's like set if present
func (r *BadgerPostRepository) RemoveLike(postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) bool {
		var changed bool
		p.Likes, changed = removeFromSet(p.Likes, userID)
		return changed
	})
}

// AddRepostedBy adds userID to the post's repostedBy set if absent
func (r *BadgerPostRepository) AddRepostedBy(postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) bool {
		var changed bool
		p.RepostedBy, changed = addToSet(p.RepostedBy, userID)
		return changed
	})
}

// RemoveRepostedBy removes userID from the post's repostedBy set if present
func (r *BadgerPostRepository) RemoveRepostedBy(postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) bool {
		var changed bool
		p.RepostedBy, changed = removeFromSet(p.RepostedBy, userID)
		return changed
	})
}

// mutate applies fn to the stored post inside a single transaction and
// persists the result when fn reports a change. The whole
// read-modify-write runs under Badger's conflict detection (with
// retry, see runUpdate), so concurrent mutations of the same post
// never lose an update.
func (r *BadgerPostRepository) mutate(id string, fn func(p *models.Post) bool) (*models.Post, error) {
	var post models.Post

	err := runUpdate(r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}

		if !fn(&post) {
			return nil
		}
		post.UpdatedAt = time.Now().UTC()

		data, err := marshalEntity(&post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(id), data)
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// scan iterates all posts and returns those matching keep, newest-first.
func (r *BadgerPostRepository) scan(keep func(p *models.Post) bool) ([]*models.Post, error) {
	var posts []*models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var post models.Post
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(posts)
	return posts, nil
}

// getEntity loads and unmarshals the value at key, mapping a missing
// key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// sortNewestFirst orders posts by CreatedAt descending, breaking ties
// by ID so pagination stays stable.
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// pagePosts slices a sorted post list by offset/limit.
func pagePosts(posts []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}
