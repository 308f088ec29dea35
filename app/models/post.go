package models

import (
	"errors"
	"strings"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	// A post must carry something: text, an image, or (for reposts)
	// the reference to the post it shares.
	if !p.HasContent() && p.Image == nil && p.OriginalPost == "" {
		return errors.New("post must have content or an image")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

// SetContent trims and stores content, mapping whitespace-only text
// to absent.
func (p *Post) SetContent(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		p.Content = nil
		return
	}
	p.Content = &content
}

// HasContent reports whether the post carries non-empty text.
func (p *Post) HasContent() bool {
	return p.Content != nil && *p.Content != ""
}

// IsComment reports whether the post is a reply to another post.
func (p *Post) IsComment() bool {
	return p.ParentPost != ""
}

// IsPlainRepost reports whether the post is a repost with no added
// commentary. At most one may exist per (author, original) pair.
func (p *Post) IsPlainRepost() bool {
	return p.OriginalPost != "" && !p.HasContent()
}

// IsQuoteRepost reports whether the post is a repost with commentary.
func (p *Post) IsQuoteRepost() bool {
	return p.OriginalPost != "" && p.HasContent()
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// RepostedByUser reports whether userID is in the post's repostedBy set.
func (p *Post) RepostedByUser(userID string) bool {
	for _, id := range p.RepostedBy {
		if id == userID {
			return true
		}
	}
	return false
}
