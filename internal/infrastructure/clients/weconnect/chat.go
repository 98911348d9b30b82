package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListRooms returns the rooms the viewer takes part in
func (c *HTTPClient) ListRooms(ctx context.Context) ([]entities.ChatRoom, error) {
	var out []entities.ChatRoom
	if err := c.getJSON(ctx, "/chat/rooms", nil, &out, "채팅방 목록을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRoom opens (or returns the existing) room with a farm owner
func (c *HTTPClient) CreateRoom(ctx context.Context, req entities.CreateRoomRequest) (*entities.ChatRoom, error) {
	out := &entities.ChatRoom{}
	if err := c.sendJSON(ctx, http.MethodPost, "/chat/rooms", req, out, "채팅방을 만들지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMessages returns the history of a room
func (c *HTTPClient) ListMessages(ctx context.Context, roomID int64) ([]entities.ChatMessage, error) {
	var out []entities.ChatMessage
	if err := c.getJSON(ctx, idPath("/chat/rooms/%d/messages", roomID), nil, &out, "메시지를 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message and returns the server echo
func (c *HTTPClient) SendMessage(ctx context.Context, roomID int64, content string) (*entities.ChatMessage, error) {
	out := &entities.ChatMessage{}
	req := entities.SendMessageRequest{Content: content}
	if err := c.sendJSON(ctx, http.MethodPost, idPath("/chat/rooms/%d/messages", roomID), req, out, "메시지를 보내지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
