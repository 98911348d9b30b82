package handlers

import (
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListShopItems handles GET /api/shop-items
func (h *Handler) ListShopItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	items := append([]entities.ShopItem{}, h.state.shopItems...)
	for i := range items {
		items[i].Owned = h.state.ownsItem(userID, items[i].ItemID)
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, items)
}

// ListMyItems handles GET /api/user-items/me
func (h *Handler) ListMyItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	items := []entities.UserItem{}
	for _, rec := range h.state.userItems {
		if rec.ownerID == userID {
			items = append(items, rec.item)
		}
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, items)
}

// PurchaseItem handles POST /api/user-items/purchase
func (h *Handler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	var item *entities.ShopItem
	for i := range h.state.shopItems {
		if h.state.shopItems[i].ItemID == req.ItemID {
			item = &h.state.shopItems[i]
		}
	}
	acc, exists := h.state.accounts[userID]
	switch {
	case item == nil:
		respondWithError(w, http.StatusNotFound, "상품을 찾을 수 없습니다.")
		return
	case !exists:
		respondWithError(w, http.StatusNotFound, "회원 정보를 찾을 수 없습니다.")
		return
	case h.state.ownsItem(userID, item.ItemID):
		respondWithError(w, http.StatusConflict, "이미 보유한 아이템입니다.")
		return
	case acc.coins < item.Price:
		respondWithError(w, http.StatusBadRequest, "코인이 부족합니다.")
		return
	}

	acc.coins -= item.Price
	rec := &userItemRecord{
		ownerID: userID,
		item: entities.UserItem{
			UserItemID: h.state.nextID("userItem"),
			ItemID:     item.ItemID,
			Name:       item.Name,
			Category:   item.Category,
		},
	}
	h.state.userItems = append(h.state.userItems, rec)
	balance := acc.coins
	respondWithJSON(w, http.StatusOK, entities.PurchaseResponse{CoinBalance: &balance, UserItem: &rec.item})
}

// EquipItem handles POST /api/user-items/equip. Other items of the same category are unequipped.
func (h *Handler) EquipItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.EquipRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	var target *userItemRecord
	for _, rec := range h.state.userItems {
		if rec.ownerID == userID && rec.item.UserItemID == req.UserItemID {
			target = rec
		}
	}
	if target == nil {
		respondWithError(w, http.StatusNotFound, "보유하지 않은 아이템입니다.")
		return
	}
	for _, rec := range h.state.userItems {
		if rec.ownerID == userID && rec.item.Category == target.item.Category {
			rec.item.Equipped = rec == target
		}
	}
	respondWithJSON(w, http.StatusOK, target.item)
}

// ownsItem reports whether userID bought itemID. Callers hold state.mu.
func (s *State) ownsItem(userID, itemID int64) bool {
	for _, rec := range s.userItems {
		if rec.ownerID == userID && rec.item.ItemID == itemID {
			return true
		}
	}
	return false
}
