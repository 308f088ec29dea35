package services

import "chirper/app/models"

// IsOwner reports whether callerID is the post's author. Every edit
// and delete passes through this check before touching storage; a
// failed check surfaces as ErrForbidden, never a silent no-op.
func IsOwner(post *models.Post, callerID string) bool {
	return callerID != "" && post.AuthorID == callerID
}
