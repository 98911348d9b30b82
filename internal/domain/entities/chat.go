package entities

// ChatRoom is a conversation between a renter and a farm owner about one farm
type ChatRoom struct {
	RoomID        int64      `json:"roomId"`
	UserID        int64      `json:"userId"`
	FarmerID      int64      `json:"farmerId"`
	FarmID        int64      `json:"farmId"`
	FarmName      string     `json:"farmName,omitempty"`
	UserNickname  string     `json:"userNickname,omitempty"`
	FarmerName    string     `json:"farmerName,omitempty"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *Timestamp `json:"lastMessageAt,omitempty"`
}

// ChatMessage is one line of a room's history
type ChatMessage struct {
	ContentID int64     `json:"contentId"`
	RoomID    int64     `json:"roomId"`
	SenderID  int64     `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"createdAt"`
}

// CreateRoomRequest is the body of POST /chat/rooms
type CreateRoomRequest struct {
	FarmID   int64 `json:"farmId"`
	FarmerID int64 `json:"farmerId"`
}

// SendMessageRequest is the body of POST /chat/rooms/{id}/messages
type SendMessageRequest struct {
	Content string `json:"content"`
}
