package controllers

import (
	"fmt"
	"net/http"

	"chirper/app/auth"
	"chirper/app/middleware"
	"chirper/app/services"
)

// SessionController handles login and logout. Authentication follows
// the OAuth-backed original, so login takes a verified email rather
// than a password; the provider callback is expected to sit in front.
type SessionController struct {
	users    *services.UserService
	sessions *auth.SessionResolver
}

// NewSessionController creates a new SessionController.
func NewSessionController(users *services.UserService, sessions *auth.SessionResolver) *SessionController {
	return &SessionController{users: users, sessions: sessions}
}

type loginRequest struct {
	Email string `json:"email"`
}

// Create handles POST /api/session.
func (sc *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	profile, err := sc.users.GetByEmail(req.Email)
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := sc.sessions.Login(w, r, profile.ID); err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, profile)
}

// Show handles GET /api/session, the current caller's profile.
func (sc *SessionController) Show(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		sendError(w, r, fmt.Errorf("%w: login required", services.ErrUnauthorized))
		return
	}

	profile, err := sc.users.GetProfile(userID)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, profile)
}

// Delete handles DELETE /api/session.
func (sc *SessionController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := sc.sessions.Logout(w, r); err != nil {
		sendError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
