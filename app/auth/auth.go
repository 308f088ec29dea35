package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the caller's session.
	SessionName = "chirper_session"

	userIDKey = "user_id"

	// sessionMaxAge is thirty days, matching the session lifetime of
	// the upstream identity provider.
	sessionMaxAge = 30 * 24 * 60 * 60
)

// Resolver resolves the caller identity from a request. The core
// never checks credentials itself; whatever issued the session already
// did that.
type Resolver interface {
	// Resolve returns the caller's user id, or false when the request
	// carries no usable identity.
	Resolve(r *http.Request) (string, bool)
}

// SessionResolver resolves identities from a signed session cookie.
// The store is injected so its lifecycle is owned by the caller.
type SessionResolver struct {
	store sessions.Store
}

// NewSessionResolver creates a SessionResolver backed by a cookie
// store signed with secret.
func NewSessionResolver(secret []byte) *SessionResolver {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionResolver{store: store}
}

// Resolve implements Resolver.
func (s *SessionResolver) Resolve(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A tampered or stale cookie is treated as no identity.
		return "", false
	}
	userID, ok := session.Values[userIDKey].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// Login binds userID to the request's session.
func (s *SessionResolver) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

// Logout clears the request's session.
func (s *SessionResolver) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
