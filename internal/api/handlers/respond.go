package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Yong0-sa/weconnect-sub000/internal/api/auth"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// Handler serves every resource of the development API from one State
type Handler struct {
	state  *State
	tokens *auth.Tokens
}

// NewHandler creates a handler over state
func NewHandler(state *State, tokens *auth.Tokens) *Handler {
	return &Handler{state: state, tokens: tokens}
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondWithError writes the {"message": ...} envelope the client reads
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, entities.MessageResponse{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "잘못된 ID입니다.")
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// currentUser returns the user the auth middleware attached. Routes without the middleware answer 401.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
	}
	return id, ok
}
