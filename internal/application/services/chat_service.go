package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Yong0-sa/weconnect-sub000/internal/application/loaders"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// ChatRoomView is a room as the viewer sees it in the list
type ChatRoomView struct {
	entities.ChatRoom
	DisplayName string
}

// ChatService keeps the room list, per-room histories and the compose draft of one viewer
type ChatService struct {
	repo     repositories.ChatRepository
	farms    repositories.FarmRepository
	viewerID int64
	now      func() time.Time

	mu       sync.RWMutex
	rooms    []ChatRoomView
	messages map[int64][]entities.ChatMessage
	active   int64
	selectN  uint64
	draft    string
}

// NewChatService creates a chat service for viewerID. farms may be nil, then missing farm names stay empty.
func NewChatService(repo repositories.ChatRepository, farms repositories.FarmRepository, viewerID int64) *ChatService {
	return &ChatService{
		repo:     repo,
		farms:    farms,
		viewerID: viewerID,
		now:      time.Now,
		messages: make(map[int64][]entities.ChatMessage),
	}
}

// LoadRooms replaces the room list
func (s *ChatService) LoadRooms(ctx context.Context) ([]ChatRoomView, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	s.resolveFarmNames(ctx, rooms)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	views := make([]ChatRoomView, len(rooms))
	for i, r := range rooms {
		views[i] = s.view(r)
	}
	sortRooms(views)

	s.mu.Lock()
	s.rooms = views
	s.mu.Unlock()
	return s.Rooms(), nil
}

func (s *ChatService) resolveFarmNames(ctx context.Context, rooms []entities.ChatRoom) {
	if s.farms == nil {
		return
	}
	var missing []int64
	seen := make(map[int64]bool)
	for _, r := range rooms {
		if r.FarmName == "" && r.FarmID != 0 && !seen[r.FarmID] {
			seen[r.FarmID] = true
			missing = append(missing, r.FarmID)
		}
	}
	if len(missing) == 0 {
		return
	}

	names := loaders.NewFarmLoader(s.farms).Names(ctx, missing)
	if len(names) < len(missing) {
		observability.LoggerFromContext(ctx).Debug().
			Int("missing", len(missing)-len(names)).
			Msg("Some chat room farms could not be resolved")
	}
	for i := range rooms {
		if rooms[i].FarmName == "" {
			rooms[i].FarmName = names[rooms[i].FarmID]
		}
	}
}

func (s *ChatService) view(r entities.ChatRoom) ChatRoomView {
	return ChatRoomView{ChatRoom: r, DisplayName: DisplayName(r, s.viewerID)}
}

// DisplayName names the other participant of room from the viewer's side
func DisplayName(room entities.ChatRoom, viewerID int64) string {
	switch viewerID {
	case room.UserID:
		if name := strings.TrimSpace(room.FarmerName); name != "" {
			return name
		}
		if name := strings.TrimSpace(room.FarmName); name != "" {
			return name
		}
		return fmt.Sprintf("농장주 #%d", room.FarmerID)
	case room.FarmerID:
		if name := strings.TrimSpace(room.UserNickname); name != "" {
			return name
		}
		return fmt.Sprintf("회원 #%d", room.UserID)
	default:
		if name := strings.TrimSpace(room.FarmName); name != "" {
			return name
		}
		return fmt.Sprintf("채팅방 #%d", room.RoomID)
	}
}

// sortRooms orders by last activity, newest first; rooms without activity go last
func sortRooms(rooms []ChatRoomView) {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i].LastMessageAt, rooms[j].LastMessageAt
		aSet := a != nil && !a.IsZero()
		bSet := b != nil && !b.IsZero()
		switch {
		case aSet && bSet && !a.Equal(b.Time):
			return a.After(b.Time)
		case aSet != bSet:
			return aSet
		default:
			return rooms[i].RoomID < rooms[j].RoomID
		}
	})
}

// OpenRoom creates or reopens the room about farmID with farmerID and puts it in the list
func (s *ChatService) OpenRoom(ctx context.Context, farmID, farmerID int64) (*ChatRoomView, error) {
	room, err := s.repo.CreateRoom(ctx, entities.CreateRoomRequest{FarmID: farmID, FarmerID: farmerID})
	if err != nil {
		return nil, err
	}
	if room.FarmName == "" {
		rooms := []entities.ChatRoom{*room}
		s.resolveFarmNames(ctx, rooms)
		room = &rooms[0]
	}
	view := s.view(*room)

	s.mu.Lock()
	replaced := false
	for i := range s.rooms {
		if s.rooms[i].RoomID == view.RoomID {
			s.rooms[i] = view
			replaced = true
			break
		}
	}
	if !replaced {
		s.rooms = append(s.rooms, view)
	}
	sortRooms(s.rooms)
	s.mu.Unlock()

	return &view, nil
}

// SelectRoom makes roomID active and loads its history. A history that arrives after
// another room was selected, or after ctx is done, is dropped.
func (s *ChatService) SelectRoom(ctx context.Context, roomID int64) error {
	s.mu.Lock()
	s.active = roomID
	s.selectN++
	ticket := s.selectN
	s.mu.Unlock()

	msgs, err := s.repo.ListMessages(ctx, roomID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectN != ticket || s.active != roomID {
		observability.LoggerFromContext(ctx).Debug().Int64("room_id", roomID).Msg("Discarding stale chat history")
		return nil
	}
	s.messages[roomID] = append([]entities.ChatMessage(nil), msgs...)
	return nil
}

// SetDraft replaces the compose text
func (s *ChatService) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// Draft returns the compose text
func (s *ChatService) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Send posts the draft to the active room. On success the echoed message is appended to that
// room only, the room moves up the list and the draft is cleared. On failure the draft is kept.
func (s *ChatService) Send(ctx context.Context) (*entities.ChatMessage, error) {
	s.mu.RLock()
	roomID := s.active
	content := strings.TrimSpace(s.draft)
	s.mu.RUnlock()

	if roomID == 0 {
		return nil, apperrors.NewValidationError("채팅방을 선택하세요.")
	}
	if content == "" {
		return nil, apperrors.NewValidationError("메시지를 입력하세요.")
	}

	msg, err := s.repo.SendMessage(ctx, roomID, content)
	if err != nil {
		return nil, err
	}
	if msg.RoomID == 0 {
		msg.RoomID = roomID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = entities.NewTimestamp(s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[roomID] = append(s.messages[roomID], *msg)
	for i := range s.rooms {
		if s.rooms[i].RoomID == roomID {
			at := msg.CreatedAt
			s.rooms[i].LastMessageAt = &at
			s.rooms[i].LastMessage = msg.Content
			break
		}
	}
	sortRooms(s.rooms)
	if strings.TrimSpace(s.draft) == content {
		s.draft = ""
	}
	return msg, nil
}

// Rooms returns a snapshot of the room list
func (s *ChatService) Rooms() []ChatRoomView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ChatRoomView(nil), s.rooms...)
}

// Messages returns a snapshot of roomID's history
func (s *ChatService) Messages(roomID int64) []entities.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ChatMessage(nil), s.messages[roomID]...)
}

// ActiveRoomID returns the selected room, 0 when none
func (s *ChatService) ActiveRoomID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}
