package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"attendance/internal/config"
	"attendance/internal/entity"
)

const (
	SessionName = "attendance-session"

	keyUserID = "user_id"
	keyRole   = "role"
)

// Sessions keeps the identity in a signed (and optionally encrypted) cookie.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(cfg config.Session) *Sessions {
	store := sessions.NewCookieStore(cfg.HashKey, cfg.BlockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(cfg.MaxAge)
	return &Sessions{store: store}
}

// Load decodes the identity from the request cookie. A missing, tampered or
// incomplete cookie yields ok == false.
func (s *Sessions) Load(r *http.Request) (Identity, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return Identity{}, false
	}

	userID, ok := session.Values[keyUserID].(int)
	if !ok || userID <= 0 {
		return Identity{}, false
	}
	role, ok := session.Values[keyRole].(string)
	if !ok || !entity.Role(role).Valid() {
		return Identity{}, false
	}

	return Identity{UserID: userID, Role: entity.Role(role)}, true
}

// Start writes a fresh session cookie for id.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, id Identity) error {
	// a stale or foreign cookie must not block a new login
	session, _ := s.store.Get(r, SessionName)
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Values[keyUserID] = id.UserID
	session.Values[keyRole] = string(id.Role)

	return errors.Wrap(session.Save(r, w), "save session")
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Options.MaxAge = -1

	return errors.Wrap(session.Save(r, w), "clear session")
}
