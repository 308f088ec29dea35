package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/app/middleware"
	"chirper/app/services"
)

// InteractionController handles likes, reposts and comments.
type InteractionController struct {
	interactions *services.InteractionService
	feed         *services.FeedService
}

// NewInteractionController creates a new InteractionController.
func NewInteractionController(interactions *services.InteractionService, feed *services.FeedService) *InteractionController {
	return &InteractionController{interactions: interactions, feed: feed}
}

type contentRequest struct {
	Content string `json:"content"`
}

// Like handles POST /api/posts/{id}/like. The operation is a toggle:
// liking a post the caller already likes removes the like.
func (ic *InteractionController) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	post, err := ic.interactions.ToggleLike(id, userID)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, post)
}

// Repost handles POST /api/posts/{id}/repost. Without content it
// toggles the caller's plain repost of the post; with content it
// creates a quote repost.
func (ic *InteractionController) Repost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	var req contentRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			sendError(w, r, err)
			return
		}
	}

	result, err := ic.interactions.Repost(id, userID, req.Content)
	if err != nil {
		sendError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Reposted {
		status = http.StatusCreated
	}
	sendJSON(w, status, result)
}

// CreateComment handles POST /api/posts/{id}/comments.
func (ic *InteractionController) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	comment, err := ic.interactions.AddComment(id, userID, req.Content)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /api/posts/{id}/comments.
func (ic *InteractionController) ListComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	comments, err := ic.feed.ListComments(id)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}
