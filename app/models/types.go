package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MaxContentLength is the hard cap on post and comment content.
const MaxContentLength = 280

// Post is the raw persisted form of a post. Reference fields hold ids
// only; use HydratedPost for delivery payloads.
type Post struct {
	ID           string    `json:"id" validate:"required"`
	Content      *string   `json:"content" validate:"omitempty,max=280"`
	Image        *string   `json:"image,omitempty" validate:"omitempty,url"`
	AuthorID     string    `json:"author" validate:"required"`
	ParentPost   string    `json:"parentPost,omitempty"`
	Comments     []string  `json:"comments"`
	Likes        []string  `json:"likes"`
	RepostedBy   []string  `json:"repostedBy"`
	OriginalPost string    `json:"originalPost,omitempty"`
	CreatedAt    time.Time `json:"createdAt" validate:"required"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// User is a user account. Credentials are issued and checked outside
// this service, so no password-class fields exist here.
type User struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"omitempty,max=50"`
	Email     string    `json:"email" validate:"required,email"`
	Image     string    `json:"image,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the public projection of a User used when hydrating
// posts. It is the only user shape that leaves the service.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// HydratedPost is a Post with its reference fields resolved for
// delivery: author as a Profile, originalPost and comments as nested
// hydrated posts.
type HydratedPost struct {
	ID           string          `json:"id"`
	Content      *string         `json:"content"`
	Image        *string         `json:"image,omitempty"`
	Author       Profile         `json:"author"`
	ParentPost   string          `json:"parentPost,omitempty"`
	Comments     []*HydratedPost `json:"comments,omitempty"`
	Likes        []string        `json:"likes"`
	RepostedBy   []string        `json:"repostedBy"`
	OriginalPost *HydratedPost   `json:"originalPost,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
