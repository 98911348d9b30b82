package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// GetProfile handles GET /api/profile/me
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	acc, exists := h.state.accounts[userID]
	if !exists {
		respondWithError(w, http.StatusNotFound, "회원 정보를 찾을 수 없습니다.")
		return
	}
	respondWithJSON(w, http.StatusOK, acc.profile)
}

// UpdateProfile handles PUT /api/profile/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var update entities.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	var hash []byte
	if update.Password != nil {
		if len(*update.Password) < 8 {
			respondWithError(w, http.StatusBadRequest, "비밀번호는 8자 이상이어야 합니다.")
			return
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost); err != nil {
			respondWithError(w, http.StatusInternalServerError, "프로필을 수정하지 못했습니다.")
			return
		}
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	acc, exists := h.state.accounts[userID]
	if !exists {
		respondWithError(w, http.StatusNotFound, "회원 정보를 찾을 수 없습니다.")
		return
	}
	if update.Nickname != nil {
		nickname := strings.TrimSpace(*update.Nickname)
		if nickname == "" {
			respondWithError(w, http.StatusBadRequest, "닉네임을 입력하세요.")
			return
		}
		if h.state.nicknameTaken(nickname, userID) {
			respondWithError(w, http.StatusConflict, "이미 사용 중인 닉네임입니다.")
			return
		}
		acc.profile.Nickname = nickname
	}
	if update.Name != nil {
		acc.profile.Name = *update.Name
	}
	if update.Phone != nil {
		acc.profile.Phone = *update.Phone
	}
	if update.Bio != nil {
		acc.profile.Bio = *update.Bio
	}
	if update.MarketingConsent != nil {
		acc.profile.MarketingConsent = *update.MarketingConsent
	}
	if hash != nil {
		acc.passwordHash = hash
	}
	acc.profile.UpdatedAt = h.state.timestamp()
	respondWithJSON(w, http.StatusOK, acc.profile)
}

// DeleteProfile handles DELETE /api/profile/me. Sessions of the account end with it.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	delete(h.state.accounts, userID)
	for sessionID, owner := range h.state.sessions {
		if owner == userID {
			delete(h.state.sessions, sessionID)
		}
	}
	h.state.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// CheckNickname handles GET /api/profile/check-nickname?nickname=
func (h *Handler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	nickname := strings.TrimSpace(r.URL.Query().Get("nickname"))
	if nickname == "" {
		respondWithError(w, http.StatusBadRequest, "닉네임을 입력하세요.")
		return
	}
	h.state.mu.Lock()
	taken := h.state.nicknameTaken(nickname, userID)
	h.state.mu.Unlock()

	check := entities.NicknameCheck{Available: !taken, Message: "사용 가능한 닉네임입니다."}
	if taken {
		check.Message = "이미 사용 중인 닉네임입니다."
	}
	respondWithJSON(w, http.StatusOK, check)
}

// VerifyPassword handles POST /api/profile/verify-password
func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	h.state.mu.Lock()
	acc, exists := h.state.accounts[userID]
	var hash []byte
	if exists {
		hash = acc.passwordHash
	}
	h.state.mu.Unlock()
	if !exists {
		respondWithError(w, http.StatusNotFound, "회원 정보를 찾을 수 없습니다.")
		return
	}
	valid := bcrypt.CompareHashAndPassword(hash, []byte(body.Password)) == nil
	respondWithJSON(w, http.StatusOK, entities.PasswordCheck{Valid: valid})
}
