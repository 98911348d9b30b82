package handlers

import (
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// GetCoins handles GET /api/coins/me
func (h *Handler) GetCoins(w http.ResponseWriter, r *http.Request) {
	h.changeCoins(w, r, 0)
}

// AddCoins handles POST /api/coins/add
func (h *Handler) AddCoins(w http.ResponseWriter, r *http.Request) {
	h.changeCoins(w, r, 1)
}

// PurchaseCoins handles POST /api/coins/purchase
func (h *Handler) PurchaseCoins(w http.ResponseWriter, r *http.Request) {
	h.changeCoins(w, r, -1)
}

// changeCoins reads the balance (sign 0) or adds or spends the requested amount
func (h *Handler) changeCoins(w http.ResponseWriter, r *http.Request, sign int) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.CoinChangeRequest
	if sign != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Amount <= 0 {
			respondWithError(w, http.StatusBadRequest, "코인 수량이 올바르지 않습니다.")
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
	if sign < 0 && acc.coins < req.Amount {
		respondWithError(w, http.StatusBadRequest, "코인이 부족합니다.")
		return
	}
	acc.coins += sign * req.Amount
	respondWithJSON(w, http.StatusOK, entities.NewCoinBalance(acc.coins))
}
