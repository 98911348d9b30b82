package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/api/auth"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// SessionStore resolves who a request belongs to
type SessionStore interface {
	UserIDForSession(sessionID string) (int64, bool)
	UserExists(userID int64) bool
}

// Authenticator accepts either the SESSION cookie or a bearer token
type Authenticator struct {
	sessions SessionStore
	tokens   *auth.Tokens
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(sessions SessionStore, tokens *auth.Tokens) *Authenticator {
	return &Authenticator{sessions: sessions, tokens: tokens}
}

// Require answers 401 with the message envelope unless the request is authenticated
func (a *Authenticator) Require(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.authenticate(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(entities.MessageResponse{Message: "로그인이 필요합니다."})
			return
		}
		next(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (int64, bool) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
		if userID, ok := a.sessions.UserIDForSession(cookie.Value); ok {
			return userID, true
		}
	}

	const bearerPrefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return 0, false
	}
	userID, err := a.tokens.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil || !a.sessions.UserExists(userID) {
		return 0, false
	}
	return userID, true
}
