package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"chirper/app/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresPostRepository implements PostRepository on PostgreSQL.
// Likes and reposts live in relation tables keyed by (post_id,
// user_id), so add-if-absent is INSERT ... ON CONFLICT DO NOTHING and
// remove-if-present is a keyed DELETE. The one-plain-repost invariant
// is enforced by a partial unique index (see migrations).
type PostgresPostRepository struct {
	db *sql.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// Create creates a new post
func (r *PostgresPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.BeforeCreate()

	query := `
		INSERT INTO posts (id, content, image, author_id, parent_post_id, original_post_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
	`
	_, err := r.db.Exec(query,
		post.ID, post.Content, post.Image, post.AuthorID,
		post.ParentPost, post.OriginalPost, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID with its like/repost sets and reply list
func (r *PostgresPostRepository) GetByID(id string) (*models.Post, error) {
	post, err := r.scanPost(r.db.QueryRow(selectPost+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadSets(post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed retrieves a page of posts ordered newest-first
func (r *PostgresPostRepository) ListFeed(limit, offset int) ([]*models.Post, error) {
	rows, err := r.db.Query(selectPost+` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return r.collect(rows)
}

// ListByParent retrieves the replies to a post, newest-first
func (r *PostgresPostRepository) ListByParent(parentID string) ([]*models.Post, error) {
	rows, err := r.db.Query(selectPost+` WHERE parent_post_id = $1 ORDER BY created_at DESC, id DESC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return r.collect(rows)
}

// FindPlainRepost looks up the content-less repost of originalID by authorID
func (r *PostgresPostRepository) FindPlainRepost(authorID, originalID string) (*models.Post, error) {
	row := r.db.QueryRow(selectPost+` WHERE author_id = $1 AND original_post_id = $2 AND content IS NULL`,
		authorID, originalID)
	post, err := r.scanPost(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadSets(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateContent replaces the post's content and bumps updated_at
func (r *PostgresPostRepository) UpdateContent(id string, content *string) (*models.Post, error) {
	res, err := r.db.Exec(`UPDATE posts SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

// Delete deletes a post. Rows referencing it through parent_post_id or
// original_post_id are left dangling on purpose.
func (r *PostgresPostRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendComment is satisfied by the reply row itself: the child's
// parent_post_id column is the reply relation, so the parent's reply
// list needs no second write here. This also removes the orphan window
// the two-step variant has.
func (r *PostgresPostRepository) AppendComment(parentID, commentID string) error {
	return nil
}

// AddLike adds userID to the post's like set if absent
func (r *PostgresPostRepository) AddLike(postID, userID string) (*models.Post, error) {
	return r.setOp(postID, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID)
}

// RemoveLike removes userID from the post's like set if present
func (r *PostgresPostRepository) RemoveLike(postID, userID string) (*models.Post, error) {
	return r.setOp(postID, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, userID)
}

// AddRepostedBy adds userID to the post's repostedBy set if absent
func (r *PostgresPostRepository) AddRepostedBy(postID, userID string) (*models.Post, error) {
	return r.setOp(postID, `INSERT INTO post_reposted_by (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID)
}

// RemoveRepostedBy removes userID from the post's repostedBy set if present
func (r *PostgresPostRepository) RemoveRepostedBy(postID, userID string) (*models.Post, error) {
	return r.setOp(postID, `DELETE FROM post_reposted_by WHERE post_id = $1 AND user_id = $2`, userID)
}

const selectPost = `
	SELECT id, content, image, author_id,
	       COALESCE(parent_post_id, ''), COALESCE(original_post_id, ''),
	       created_at, updated_at
	FROM posts`

// setOp runs a single-statement set mutation and returns the updated
// post. updated_at is touched only when membership actually changed,
// so idempotent re-calls leave the post untouched.
func (r *PostgresPostRepository) setOp(postID, query, userID string) (*models.Post, error) {
	res, err := r.db.Exec(query, postID, userID)
	if err != nil {
		// FK violation: the target post is gone.
		if strings.Contains(err.Error(), "foreign key") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}
	if changed > 0 {
		if _, err := r.db.Exec(`UPDATE posts SET updated_at = NOW() WHERE id = $1`, postID); err != nil {
			return nil, fmt.Errorf("failed to touch post: %w", err)
		}
	}

	return r.GetByID(postID)
}

func (r *PostgresPostRepository) scanPost(row *sql.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.Content, &post.Image, &post.AuthorID,
		&post.ParentPost, &post.OriginalPost,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) collect(rows *sql.Rows) ([]*models.Post, error) {
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.Content, &post.Image, &post.AuthorID,
			&post.ParentPost, &post.OriginalPost,
			&post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		if err := r.loadSets(post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// loadSets fills the post's likes, repostedBy and ordered reply list.
func (r *PostgresPostRepository) loadSets(post *models.Post) error {
	var err error
	post.Likes, err = r.members(`SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY liked_at`, post.ID)
	if err != nil {
		return err
	}
	post.RepostedBy, err = r.members(`SELECT user_id FROM post_reposted_by WHERE post_id = $1 ORDER BY reposted_at`, post.ID)
	if err != nil {
		return err
	}
	post.Comments, err = r.members(`SELECT id FROM posts WHERE parent_post_id = $1 ORDER BY created_at, id`, post.ID)
	return err
}

func (r *PostgresPostRepository) members(query, postID string) ([]string, error) {
	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

// PostgresUserRepository implements UserRepository on PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create creates a new user
func (r *PostgresUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.BeforeCreate()

	_, err := r.db.Exec(
		`INSERT INTO users (id, name, email, image, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.Image, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(id string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(selectUser+` WHERE id = $1`, id))
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(selectUser+` WHERE email = $1`, email))
}

// UpdateImage replaces the user's profile image URL
func (r *PostgresUserRepository) UpdateImage(id, image string) (*models.User, error) {
	res, err := r.db.Exec(`UPDATE users SET image = $2 WHERE id = $1`, id, image)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}

const selectUser = `SELECT id, COALESCE(name, ''), email, COALESCE(image, ''), created_at FROM users`

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Image, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}
