package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yong0-sa/weconnect-sub000/internal/api/auth"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
)

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req entities.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Nickname = strings.TrimSpace(req.Nickname)
	if !strings.Contains(req.Email, "@") || len(req.Password) < 8 || req.Nickname == "" {
		respondWithError(w, http.StatusBadRequest, "입력값을 확인하세요.")
		return
	}
	if req.Role != entities.RoleFarmer && req.Role != entities.RolePersonal {
		respondWithError(w, http.StatusBadRequest, "회원 유형을 선택하세요.")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if h.state.accountByEmail(req.Email) != nil {
		respondWithError(w, http.StatusConflict, "이미 가입된 이메일입니다.")
		return
	}
	if h.state.nicknameTaken(req.Nickname, 0) {
		respondWithError(w, http.StatusConflict, "이미 사용 중인 닉네임입니다.")
		return
	}
	if _, err := h.state.createAccount(req); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to create account")
		respondWithError(w, http.StatusInternalServerError, "회원가입에 실패했습니다.")
		return
	}
	respondWithJSON(w, http.StatusCreated, entities.MessageResponse{Message: "회원가입이 완료되었습니다."})
}

// Login handles POST /api/auth/login. It sets the session cookie and hands out a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.state.mu.Lock()
	acc := h.state.accountByEmail(req.Email)
	if acc == nil || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		h.state.mu.Unlock()
		respondWithError(w, http.StatusBadRequest, "이메일 또는 비밀번호가 올바르지 않습니다.")
		return
	}
	profile := acc.profile
	sessionID := uuid.NewString()
	h.state.sessions[sessionID] = profile.UserID
	h.state.mu.Unlock()

	token, err := h.tokens.Issue(profile.UserID)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to sign token")
		respondWithError(w, http.StatusInternalServerError, "로그인에 실패했습니다.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, entities.LoginResponse{
		Token:    token,
		UserID:   profile.UserID,
		Nickname: profile.Nickname,
	})
}

// Logout handles POST /api/auth/logout. It always succeeds so a stale client can still sign out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		h.state.mu.Lock()
		delete(h.state.sessions, cookie.Value)
		h.state.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
