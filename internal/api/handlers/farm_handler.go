package handlers

import (
	"net/http"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListFarms handles GET /api/farms
func (h *Handler) ListFarms(w http.ResponseWriter, r *http.Request) {
	h.state.mu.Lock()
	farms := make([]entities.Farm, 0, len(h.state.farms))
	for _, f := range h.state.farms {
		farms = append(farms, *f)
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, farms)
}

// GetFarm handles GET /api/farms/{id}
func (h *Handler) GetFarm(w http.ResponseWriter, r *http.Request) {
	farmID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	farm := h.state.farm(farmID)
	if farm == nil {
		respondWithError(w, http.StatusNotFound, "농장을 찾을 수 없습니다.")
		return
	}
	respondWithJSON(w, http.StatusOK, farm)
}

// CreateFarm handles POST /api/farms. Only farmer accounts own farms.
func (h *Handler) CreateFarm(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var farm entities.Farm
	if !decodeJSON(w, r, &farm) {
		return
	}
	farm.Name = strings.TrimSpace(farm.Name)
	if farm.Name == "" {
		respondWithError(w, http.StatusBadRequest, "농장 이름을 입력하세요.")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	acc, exists := h.state.accounts[userID]
	if !exists || !acc.profile.IsFarmer() {
		respondWithError(w, http.StatusForbidden, "농장주만 농장을 등록할 수 있습니다.")
		return
	}
	farm.OwnerID = userID
	farm.OwnerName = acc.profile.Nickname
	h.state.addFarm(&farm)
	respondWithJSON(w, http.StatusCreated, farm)
}
