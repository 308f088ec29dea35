package controllers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"chirper/app/auth"
	"chirper/app/middleware"
	"chirper/app/services"
)

// UserController handles account and profile requests.
type UserController struct {
	users    *services.UserService
	sessions *auth.SessionResolver
}

// NewUserController creates a new UserController.
func NewUserController(users *services.UserService, sessions *auth.SessionResolver) *UserController {
	return &UserController{users: users, sessions: sessions}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// Create handles POST /api/users. A fresh account is logged in
// immediately.
func (uc *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	profile, err := uc.users.CreateUser(req.Name, req.Email, req.Image)
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := uc.sessions.Login(w, r, profile.ID); err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusCreated, profile)
}

// Show handles GET /api/users/{id}.
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, err := uc.users.GetProfile(id)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, profile)
}

type imageRequest struct {
	Image string `json:"image"`
}

// UpdateImage handles PUT /api/users/{id}/image. Only the account
// owner may change their picture.
func (uc *UserController) UpdateImage(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r)
	if callerID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}
	id := mux.Vars(r)["id"]

	var req imageRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	profile, err := uc.users.UpdateImage(id, callerID, req.Image)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, profile)
}
