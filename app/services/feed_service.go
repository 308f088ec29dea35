package services

import (
	"errors"
	"sort"

	"chirper/app/models"
	"chirper/app/repositories"
)

const (
	// DefaultFeedLimit is the page size used when the caller does not
	// supply one.
	DefaultFeedLimit = 50
	// MaxFeedLimit caps a caller-supplied page size.
	MaxFeedLimit = 100
)

// FeedService is the feed composer: it retrieves posts, resolves their
// author/originalPost/comments references into delivery form, and
// paginates. Profiles are joined at read time; posts never embed user
// data.
type FeedService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *FeedService {
	return &FeedService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// ListFeed returns a page of hydrated posts, newest first. offset makes
// the sequence restartable: successive pages at offset 0, limit,
// 2*limit... walk the whole feed.
func (s *FeedService) ListFeed(limit, offset int) ([]*models.HydratedPost, error) {
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postRepo.ListFeed(limit, offset)
	if err != nil {
		return nil, storageError(err)
	}

	feed := make([]*models.HydratedPost, 0, len(posts))
	for _, post := range posts {
		hydrated, err := s.Hydrate(post, false)
		if err != nil {
			return nil, err
		}
		feed = append(feed, hydrated)
	}
	return feed, nil
}

// GetPostDetail returns a single post hydrated for the detail view:
// author, originalPost, and its replies newest-first, each with their
// author resolved.
func (s *FeedService) GetPostDetail(id string) (*models.HydratedPost, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, storageError(err)
	}
	return s.Hydrate(post, true)
}

// ListComments returns the replies to a post, hydrated and sorted
// newest-first.
func (s *FeedService) ListComments(parentID string) ([]*models.HydratedPost, error) {
	if _, err := s.postRepo.GetByID(parentID); err != nil {
		return nil, storageError(err)
	}

	replies, err := s.postRepo.ListByParent(parentID)
	if err != nil {
		return nil, storageError(err)
	}

	comments := make([]*models.HydratedPost, 0, len(replies))
	for _, reply := range replies {
		hydrated, err := s.hydrateShallow(reply)
		if err != nil {
			return nil, err
		}
		comments = append(comments, hydrated)
	}
	return comments, nil
}

// Hydrate resolves a post's references for delivery. The author is
// joined as a public profile; originalPost is resolved one level deep
// with its own author. With withComments set, the post's reply list is
// resolved as well, sorted newest-first; dangling reply references
// (deleted replies) are skipped.
func (s *FeedService) Hydrate(post *models.Post, withComments bool) (*models.HydratedPost, error) {
	hydrated, err := s.hydrateShallow(post)
	if err != nil {
		return nil, err
	}

	if post.OriginalPost != "" {
		original, err := s.postRepo.GetByID(post.OriginalPost)
		switch {
		case err == nil:
			hydrated.OriginalPost, err = s.hydrateShallow(original)
			if err != nil {
				return nil, err
			}
		case errors.Is(err, repositories.ErrNotFound):
			// The original was deleted; deliver the repost without it.
		default:
			return nil, err
		}
	}

	if withComments {
		comments := make([]*models.HydratedPost, 0, len(post.Comments))
		for _, commentID := range post.Comments {
			comment, err := s.postRepo.GetByID(commentID)
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			hydratedComment, err := s.hydrateShallow(comment)
			if err != nil {
				return nil, err
			}
			comments = append(comments, hydratedComment)
		}
		sortHydratedNewestFirst(comments)
		hydrated.Comments = comments
	}

	return hydrated, nil
}

// hydrateShallow resolves the author only.
func (s *FeedService) hydrateShallow(post *models.Post) (*models.HydratedPost, error) {
	profile, err := s.resolveProfile(post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &models.HydratedPost{
		ID:           post.ID,
		Content:      post.Content,
		Image:        post.Image,
		Author:       profile,
		ParentPost:   post.ParentPost,
		Likes:        append([]string(nil), post.Likes...),
		RepostedBy:   append([]string(nil), post.RepostedBy...),
		OriginalPost: nil,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}, nil
}

// resolveProfile joins the author's public profile. A missing user
// (deleted account) degrades to a bare id rather than failing the read.
func (s *FeedService) resolveProfile(userID string) (models.Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Profile{ID: userID}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}

func sortHydratedNewestFirst(posts []*models.HydratedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
