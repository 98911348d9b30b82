package handlers

import (
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ApplyContract handles POST /api/farm-contracts
func (h *Handler) ApplyContract(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var app entities.ContractApplication
	if !decodeJSON(w, r, &app) {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	farm := h.state.farm(app.FarmID)
	if farm == nil {
		respondWithError(w, http.StatusNotFound, "농장을 찾을 수 없습니다.")
		return
	}
	if farm.OwnerID == userID {
		respondWithError(w, http.StatusBadRequest, "본인 농장에는 신청할 수 없습니다.")
		return
	}
	for _, c := range h.state.contracts {
		if c.FarmID == app.FarmID && c.ApplicantID == userID && c.Status == entities.ContractStatusPending {
			respondWithError(w, http.StatusConflict, "이미 신청한 농장입니다.")
			return
		}
	}

	contract := &entities.FarmContract{
		ContractID:    h.state.nextID("contract"),
		FarmID:        farm.ID,
		FarmName:      farm.Name,
		ApplicantID:   userID,
		ApplicantName: h.state.nickname(userID),
		OwnerID:       farm.OwnerID,
		Status:        entities.ContractStatusPending,
		Message:       app.Message,
		CreatedAt:     h.state.timestamp(),
	}
	h.state.contracts = append(h.state.contracts, contract)
	respondWithJSON(w, http.StatusCreated, contract)
}

// ListMyContracts handles GET /api/farm-contracts/me
func (h *Handler) ListMyContracts(w http.ResponseWriter, r *http.Request) {
	h.listContracts(w, r, func(c *entities.FarmContract, userID int64) bool { return c.ApplicantID == userID })
}

// ListOwnerContracts handles GET /api/farm-contracts/owner
func (h *Handler) ListOwnerContracts(w http.ResponseWriter, r *http.Request) {
	h.listContracts(w, r, func(c *entities.FarmContract, userID int64) bool { return c.OwnerID == userID })
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request, match func(*entities.FarmContract, int64) bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	out := []entities.FarmContract{}
	for i := len(h.state.contracts) - 1; i >= 0; i-- {
		if c := h.state.contracts[i]; match(c, userID) {
			out = append(out, *c)
		}
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, out)
}

// ApproveContract handles PUT /api/farm-contracts/{id}/approve
func (h *Handler) ApproveContract(w http.ResponseWriter, r *http.Request) {
	h.decideContract(w, r, entities.ContractStatusApproved)
}

// RejectContract handles PUT /api/farm-contracts/{id}/reject
func (h *Handler) RejectContract(w http.ResponseWriter, r *http.Request) {
	h.decideContract(w, r, entities.ContractStatusRejected)
}

func (h *Handler) decideContract(w http.ResponseWriter, r *http.Request, status entities.ContractStatus) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	for _, c := range h.state.contracts {
		if c.ContractID != contractID {
			continue
		}
		switch {
		case c.OwnerID != userID:
			respondWithError(w, http.StatusForbidden, "농장주만 처리할 수 있습니다.")
		case c.Status != entities.ContractStatusPending:
			respondWithError(w, http.StatusConflict, "이미 처리된 신청입니다.")
		default:
			c.Status = status
			respondWithJSON(w, http.StatusOK, c)
		}
		return
	}
	respondWithError(w, http.StatusNotFound, "신청 내역을 찾을 수 없습니다.")
}
