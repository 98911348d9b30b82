package handlers

import (
	"net/http"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListRooms handles GET /api/chat/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	rooms := []entities.ChatRoom{}
	for _, room := range h.state.rooms {
		if room.UserID == userID || room.FarmerID == userID {
			rooms = append(rooms, *room)
		}
	}
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, rooms)
}

// CreateRoom handles POST /api/chat/rooms. An existing room for the same renter and farm is returned as is.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	farm := h.state.farm(req.FarmID)
	if farm == nil {
		respondWithError(w, http.StatusNotFound, "농장을 찾을 수 없습니다.")
		return
	}
	farmerID := req.FarmerID
	if farmerID == 0 {
		farmerID = farm.OwnerID
	}
	if farmerID == userID {
		respondWithError(w, http.StatusBadRequest, "본인과는 채팅할 수 없습니다.")
		return
	}
	for _, room := range h.state.rooms {
		if room.UserID == userID && room.FarmID == farm.ID {
			respondWithJSON(w, http.StatusOK, room)
			return
		}
	}

	room := &entities.ChatRoom{
		RoomID:       h.state.nextID("room"),
		UserID:       userID,
		FarmerID:     farmerID,
		FarmID:       farm.ID,
		FarmName:     farm.Name,
		UserNickname: h.state.nickname(userID),
		FarmerName:   h.state.nickname(farmerID),
	}
	h.state.rooms = append(h.state.rooms, room)
	respondWithJSON(w, http.StatusCreated, room)
}

// participantRoom resolves the {id} room for a participant. Callers hold state.mu.
func (h *Handler) participantRoom(w http.ResponseWriter, r *http.Request, userID int64) *entities.ChatRoom {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return nil
	}
	for _, room := range h.state.rooms {
		if room.RoomID == roomID {
			if room.UserID != userID && room.FarmerID != userID {
				respondWithError(w, http.StatusForbidden, "채팅방에 참여하지 않았습니다.")
				return nil
			}
			return room
		}
	}
	respondWithError(w, http.StatusNotFound, "채팅방을 찾을 수 없습니다.")
	return nil
}

// ListMessages handles GET /api/chat/rooms/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	room := h.participantRoom(w, r, userID)
	if room == nil {
		return
	}
	messages := append([]entities.ChatMessage{}, h.state.messages[room.RoomID]...)
	respondWithJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/chat/rooms/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondWithError(w, http.StatusBadRequest, "메시지를 입력하세요.")
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	room := h.participantRoom(w, r, userID)
	if room == nil {
		return
	}
	sentAt := h.state.timestamp()
	msg := entities.ChatMessage{
		ContentID: h.state.nextID("message"),
		RoomID:    room.RoomID,
		SenderID:  userID,
		Content:   content,
		CreatedAt: *sentAt,
	}
	h.state.messages[room.RoomID] = append(h.state.messages[room.RoomID], msg)
	room.LastMessage = content
	room.LastMessageAt = sentAt
	respondWithJSON(w, http.StatusCreated, msg)
}
