package mock

import (
	"sort"
	"sync"
	"time"

	"chirper/app/models"
	"chirper/app/repositories"

	"github.com/google/uuid"
)

// PostRepository is an in-memory repositories.PostRepository. A single
// mutex serializes every operation, which gives the same atomic
// add-if-absent / remove-if-present guarantees as the real stores.
type PostRepository struct {
	posts map[string]*models.Post
	mutex sync.RWMutex
}

// UserRepository is an in-memory repositories.UserRepository.
type UserRepository struct {
	users map[string]*models.User
	mutex sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*models.User),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
}

// PostRepository implementation

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.BeforeCreate()
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) ListFeed(limit, offset int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := m.match(func(p *models.Post) bool { return true })
	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

func (m *PostRepository) ListByParent(parentID string) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.match(func(p *models.Post) bool { return p.ParentPost == parentID }), nil
}

func (m *PostRepository) FindPlainRepost(authorID, originalID string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := m.match(func(p *models.Post) bool {
		return p.AuthorID == authorID && p.OriginalPost == originalID && !p.HasContent()
	})
	if len(posts) == 0 {
		return nil, repositories.ErrNotFound
	}
	return posts[0], nil
}

func (m *PostRepository) UpdateContent(id string, content *string) (*models.Post, error) {
	return m.mutate(id, func(p *models.Post) bool {
		p.Content = content
		return true
	})
}

func (m *PostRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) AppendComment(parentID, commentID string) error {
	_, err := m.mutate(parentID, func(p *models.Post) bool {
		p.Comments = append(p.Comments, commentID)
		return true
	})
	return err
}

func (m *PostRepository) AddLike(postID, userID string) (*models.Post, error) {
	return m.mutate(postID, func(p *models.Post) bool {
		if p.LikedBy(userID) {
			return false
		}
		p.Likes = append(p.Likes, userID)
		return true
	})
}

func (m *PostRepository) RemoveLike(postID, userID string) (*models.Post, error) {
	return m.mutate(postID, func(p *models.Post) bool {
		for i, id := range p.Likes {
			if id == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (m *PostRepository) AddRepostedBy(postID, userID string) (*models.Post, error) {
	return m.mutate(postID, func(p *models.Post) bool {
		if p.RepostedByUser(userID) {
			return false
		}
		p.RepostedBy = append(p.RepostedBy, userID)
		return true
	})
}

func (m *PostRepository) RemoveRepostedBy(postID, userID string) (*models.Post, error) {
	return m.mutate(postID, func(p *models.Post) bool {
		for i, id := range p.RepostedBy {
			if id == userID {
				p.RepostedBy = append(p.RepostedBy[:i], p.RepostedBy[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (m *PostRepository) mutate(id string, fn func(p *models.Post) bool) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if fn(post) {
		post.UpdatedAt = time.Now().UTC()
	}
	return clonePost(post), nil
}

func (m *PostRepository) match(keep func(p *models.Post) bool) []*models.Post {
	var posts []*models.Post
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = append([]string(nil), p.Comments...)
	cp.Likes = append([]string(nil), p.Likes...)
	cp.RepostedBy = append([]string(nil), p.RepostedBy...)
	return &cp
}

// UserRepository implementation

func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.BeforeCreate()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) GetByID(id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) UpdateImage(id, image string) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	user.Image = image
	cp := *user
	return &cp, nil
}
