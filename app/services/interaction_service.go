package services

import (
	"fmt"

	"chirper/app/models"
	"chirper/app/repositories"
)

// InteractionService implements the like toggle, the repost/undo/quote
// state machine, and reply creation.
type InteractionService struct {
	postRepo repositories.PostRepository
	composer *FeedService
}

// RepostResult reports the outcome of a repost request. Post is the
// newly created repost (nil when an existing plain repost was undone);
// Target is the original post after its repostedBy set was updated.
type RepostResult struct {
	Reposted bool                 `json:"reposted"`
	Post     *models.HydratedPost `json:"post,omitempty"`
	Target   *models.HydratedPost `json:"target"`
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(postRepo repositories.PostRepository, composer *FeedService) *InteractionService {
	return &InteractionService{
		postRepo: postRepo,
		composer: composer,
	}
}

// ToggleLike likes the post when userID is not in its like set and
// unlikes it otherwise. Two calls in sequence restore the original
// state. The membership mutation itself is an atomic set operation, so
// concurrent toggles converge instead of double-applying.
func (s *InteractionService) ToggleLike(postID, userID string) (*models.HydratedPost, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, storageError(err)
	}

	var updated *models.Post
	if post.LikedBy(userID) {
		updated, err = s.postRepo.RemoveLike(postID, userID)
	} else {
		updated, err = s.postRepo.AddLike(postID, userID)
	}
	if err != nil {
		return nil, storageError(err)
	}

	return s.composer.Hydrate(updated, false)
}

// Repost executes the repost state machine against targetID.
//
// With non-empty content it always creates a new quote-repost and adds
// the caller to the target's repostedBy set; quote-reposts are never
// toggled, so repeating the call stacks new posts while repostedBy
// gains the caller only once.
//
// With empty content it toggles the caller's single plain repost of
// the target: delete it and leave the set if one exists, create it and
// join the set otherwise.
func (s *InteractionService) Repost(targetID, userID, content string) (*RepostResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	if _, err := s.postRepo.GetByID(targetID); err != nil {
		return nil, storageError(err)
	}

	trimmed, err := validateContent(content, false)
	if err != nil {
		return nil, err
	}

	if trimmed != nil {
		return s.quoteRepost(targetID, userID, trimmed)
	}
	return s.togglePlainRepost(targetID, userID)
}

func (s *InteractionService) quoteRepost(targetID, userID string, content *string) (*RepostResult, error) {
	post := &models.Post{
		AuthorID:     userID,
		OriginalPost: targetID,
		Content:      content,
	}
	if err := createPost(s.postRepo, post); err != nil {
		return nil, err
	}

	target, err := s.postRepo.AddRepostedBy(targetID, userID)
	if err != nil {
		return nil, storageError(err)
	}

	return s.repostResult(true, post, target)
}

func (s *InteractionService) togglePlainRepost(targetID, userID string) (*RepostResult, error) {
	existing, err := s.postRepo.FindPlainRepost(userID, targetID)
	switch storageError(err) {
	case nil:
		// Undo: drop the plain repost and leave the set.
		if err := s.postRepo.Delete(existing.ID); err != nil {
			return nil, storageError(err)
		}
		target, err := s.postRepo.RemoveRepostedBy(targetID, userID)
		if err != nil {
			return nil, storageError(err)
		}
		return s.repostResult(false, nil, target)
	case ErrNotFound:
		post := &models.Post{
			AuthorID:     userID,
			OriginalPost: targetID,
		}
		if err := createPost(s.postRepo, post); err != nil {
			return nil, err
		}
		target, err := s.postRepo.AddRepostedBy(targetID, userID)
		if err != nil {
			return nil, storageError(err)
		}
		return s.repostResult(true, post, target)
	default:
		return nil, storageError(err)
	}
}

func (s *InteractionService) repostResult(reposted bool, post, target *models.Post) (*RepostResult, error) {
	result := &RepostResult{Reposted: reposted}

	if post != nil {
		hydrated, err := s.composer.Hydrate(post, false)
		if err != nil {
			return nil, err
		}
		result.Post = hydrated
	}

	hydratedTarget, err := s.composer.Hydrate(target, false)
	if err != nil {
		return nil, err
	}
	result.Target = hydratedTarget

	return result, nil
}

// AddComment creates a reply to parentID and records it in the
// parent's reply list. The two writes are separate; a failure after
// the first leaves the reply present but unlisted (surfaced as an
// internal error, not retried).
func (s *InteractionService) AddComment(parentID, authorID, content string) (*models.HydratedPost, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}

	trimmed, err := validateContent(content, true)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.GetByID(parentID); err != nil {
		return nil, storageError(err)
	}

	comment := &models.Post{
		AuthorID:   authorID,
		ParentPost: parentID,
		Content:    trimmed,
	}
	if err := createPost(s.postRepo, comment); err != nil {
		return nil, err
	}

	if err := s.postRepo.AppendComment(parentID, comment.ID); err != nil {
		return nil, fmt.Errorf("reply %s created but not linked to parent: %w", comment.ID, err)
	}

	return s.composer.Hydrate(comment, false)
}
