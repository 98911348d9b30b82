package repositories

import (
	"context"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// AuthRepository covers the credential endpoints
type AuthRepository interface {
	Signup(ctx context.Context, req entities.SignupRequest) (*entities.MessageResponse, error)
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
	Logout(ctx context.Context) error
}

// ProfileRepository covers /profile
type ProfileRepository interface {
	GetProfile(ctx context.Context) (*entities.Profile, error)
	UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.Profile, error)
	DeleteProfile(ctx context.Context) error
	CheckNickname(ctx context.Context, nickname string) (*entities.NicknameCheck, error)
	VerifyPassword(ctx context.Context, password string) (*entities.PasswordCheck, error)
}

// CoinRepository covers /coins
type CoinRepository interface {
	GetCoins(ctx context.Context) (*entities.CoinBalance, error)
	AddCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error)
	PurchaseCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error)
}

// FarmRepository covers /farms
type FarmRepository interface {
	ListFarms(ctx context.Context) ([]entities.Farm, error)
	GetFarm(ctx context.Context, farmID int64) (*entities.Farm, error)
	CreateFarm(ctx context.Context, farm entities.Farm) (*entities.Farm, error)
}

// ContractRepository covers /farm-contracts
type ContractRepository interface {
	ApplyContract(ctx context.Context, app entities.ContractApplication) (*entities.FarmContract, error)
	ListMyContracts(ctx context.Context) ([]entities.FarmContract, error)
	ListOwnerContracts(ctx context.Context) ([]entities.FarmContract, error)
	ApproveContract(ctx context.Context, contractID int64) (*entities.FarmContract, error)
	RejectContract(ctx context.Context, contractID int64) (*entities.FarmContract, error)
}

// ChatRepository covers /chat/rooms
type ChatRepository interface {
	ListRooms(ctx context.Context) ([]entities.ChatRoom, error)
	CreateRoom(ctx context.Context, req entities.CreateRoomRequest) (*entities.ChatRoom, error)
	ListMessages(ctx context.Context, roomID int64) ([]entities.ChatMessage, error)
	SendMessage(ctx context.Context, roomID int64, content string) (*entities.ChatMessage, error)
}

// DiaryRepository covers /diary
type DiaryRepository interface {
	ListDiaries(ctx context.Context) ([]entities.DiaryEntry, error)
	SearchDiaries(ctx context.Context, keyword string) ([]entities.DiaryEntry, error)
	GetDiary(ctx context.Context, diaryID int64) (*entities.DiaryEntry, error)
	CreateDiary(ctx context.Context, in entities.DiaryInput) (*entities.DiaryEntry, error)
	UpdateDiary(ctx context.Context, diaryID int64, in entities.DiaryInput) (*entities.DiaryEntry, error)
	DeleteDiary(ctx context.Context, diaryID int64) error
}

// ShopRepository covers /shop-items and /user-items
type ShopRepository interface {
	ListShopItems(ctx context.Context) ([]entities.ShopItem, error)
	ListMyItems(ctx context.Context) ([]entities.UserItem, error)
	PurchaseItem(ctx context.Context, itemID int64) (*entities.PurchaseResponse, error)
	EquipItem(ctx context.Context, userItemID int64) (*entities.UserItem, error)
}

// CommunityRepository covers /posts and /comments
type CommunityRepository interface {
	ListPosts(ctx context.Context, farmID *int64) ([]entities.Post, error)
	GetPost(ctx context.Context, postID int64) (*entities.Post, error)
	CreatePost(ctx context.Context, in entities.PostInput) (*entities.Post, error)
	UpdatePost(ctx context.Context, postID int64, in entities.PostInput) (*entities.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	ListComments(ctx context.Context, postID int64) ([]entities.Comment, error)
	CreateComment(ctx context.Context, in entities.CommentInput) (*entities.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// AIRepository covers /ai
type AIRepository interface {
	AIChat(ctx context.Context, message string) (*entities.AIChatResponse, error)
	AIChatHistory(ctx context.Context) ([]entities.AIChatTurn, error)
	TextSuggestions(ctx context.Context, text string) (*entities.TextSuggestionResponse, error)
	Diagnose(ctx context.Context, photo *entities.Photo) (*entities.Diagnosis, error)
}
