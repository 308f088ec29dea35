package repositories

import "chirper/app/models"

// PostRepository defines the interface for post data access.
//
// AddLike/RemoveLike and AddRepostedBy/RemoveRepostedBy are atomic
// add-if-absent / remove-if-present set operations: implementations
// must guarantee that concurrent calls never lose an update and that
// a user appears at most once in the set.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	// ListFeed returns posts ordered newest-first.
	ListFeed(limit, offset int) ([]*models.Post, error)
	// ListByParent returns the replies to a post, newest-first.
	ListByParent(parentID string) ([]*models.Post, error)
	// FindPlainRepost returns the single content-less repost of
	// originalID by authorID, or ErrNotFound.
	FindPlainRepost(authorID, originalID string) (*models.Post, error)
	// UpdateContent replaces the post's content and bumps UpdatedAt
	// without touching any other field.
	UpdateContent(id string, content *string) (*models.Post, error)
	Delete(id string) error
	// AppendComment records commentID in the parent's ordered reply list.
	AppendComment(parentID, commentID string) error
	AddLike(postID, userID string) (*models.Post, error)
	RemoveLike(postID, userID string) (*models.Post, error)
	AddRepostedBy(postID, userID string) (*models.Post, error)
	RemoveRepostedBy(postID, userID string) (*models.Post, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateImage(id, image string) (*models.User, error)
}
