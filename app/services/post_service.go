package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chirper/app/models"
	"chirper/app/repositories"
)

// PostService handles creation, editing and deletion of posts
type PostService struct {
	postRepo repositories.PostRepository
	composer *FeedService
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, composer *FeedService) *PostService {
	return &PostService{
		postRepo: postRepo,
		composer: composer,
	}
}

// CreatePost creates a new top-level post carrying text, an image, or
// both, and returns it hydrated.
func (s *PostService) CreatePost(authorID, content string, image *string) (*models.HydratedPost, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}

	trimmed, err := validateContent(content, image == nil)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  trimmed,
		Image:    image,
	}
	if err := createPost(s.postRepo, post); err != nil {
		return nil, err
	}

	return s.composer.Hydrate(post, false)
}

// EditPost updates a post's content. Only the author may edit.
func (s *PostService) EditPost(postID, callerID, content string) (*models.HydratedPost, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}

	trimmed, err := validateContent(content, true)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, storageError(err)
	}
	if !IsOwner(post, callerID) {
		return nil, ErrForbidden
	}

	updated, err := s.postRepo.UpdateContent(postID, trimmed)
	if err != nil {
		return nil, storageError(err)
	}
	return s.composer.Hydrate(updated, false)
}

// DeletePost removes a post. Only the author may delete. References
// held by replies, reposts and parents are left dangling.
func (s *PostService) DeletePost(postID, callerID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return storageError(err)
	}
	if !IsOwner(post, callerID) {
		return ErrForbidden
	}

	return storageError(s.postRepo.Delete(postID))
}

// createPost assigns the post's identity, stamps its timestamps, runs
// model validation and persists it. All create paths go through here,
// so the struct tag rules (length, image URL format) hold for every
// stored post.
func createPost(repo repositories.PostRepository, post *models.Post) error {
	post.ID = uuid.NewString()
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return storageError(repo.Create(post))
}

// validateContent trims content and enforces the length rules. When
// required is false, empty content is allowed and maps to absent.
func validateContent(content string, required bool) (*string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		if required {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		return nil, nil
	}
	if len([]rune(content)) > models.MaxContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrValidation, models.MaxContentLength)
	}
	return &content, nil
}

// storageError maps repository errors to the service taxonomy. Unknown
// errors pass through and are treated as internal by callers.
func storageError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
