package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chirper/app/middleware"
	"chirper/app/services"
)

// PostController handles HTTP requests for posts and the feed.
type PostController struct {
	posts *services.PostService
	feed  *services.FeedService
}

// NewPostController creates a new PostController.
func NewPostController(posts *services.PostService, feed *services.FeedService) *PostController {
	return &PostController{posts: posts, feed: feed}
}

type postRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// Create handles POST /api/posts.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.GetUserID(r)
	if authorID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.posts.CreatePost(authorID, req.Content, req.Image)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusCreated, post)
}

// Index handles GET /api/posts, the reverse-chronological feed.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultFeedLimit)
	if err != nil {
		sendError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		sendError(w, r, err)
		return
	}

	posts, err := pc.feed.ListFeed(limit, offset)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// Show handles GET /api/posts/{id}, a single post with its replies.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := pc.feed.GetPostDetail(id)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, post)
}

// Edit handles PUT /api/posts/{id}.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.posts.EditPost(id, callerID, req.Content)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	if err := pc.posts.DeletePost(id, callerID); err != nil {
		sendError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", services.ErrValidation, name)
	}
	return value, nil
}
