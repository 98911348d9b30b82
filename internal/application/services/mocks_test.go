package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// Mocks

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Signup(ctx context.Context, req entities.SignupRequest) (*entities.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MessageResponse), args.Error(1)
}

func (m *MockAuthRepository) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LoginResponse), args.Error(1)
}

func (m *MockAuthRepository) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context) (*entities.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.Profile, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) DeleteProfile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProfileRepository) CheckNickname(ctx context.Context, nickname string) (*entities.NicknameCheck, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.NicknameCheck), args.Error(1)
}

func (m *MockProfileRepository) VerifyPassword(ctx context.Context, password string) (*entities.PasswordCheck, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PasswordCheck), args.Error(1)
}

type MockCoinRepository struct {
	mock.Mock
}

func (m *MockCoinRepository) GetCoins(ctx context.Context) (*entities.CoinBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CoinBalance), args.Error(1)
}

func (m *MockCoinRepository) AddCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error) {
	args := m.Called(ctx, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CoinBalance), args.Error(1)
}

func (m *MockCoinRepository) PurchaseCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error) {
	args := m.Called(ctx, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CoinBalance), args.Error(1)
}

type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) ListFarms(ctx context.Context) ([]entities.Farm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Farm), args.Error(1)
}

func (m *MockFarmRepository) GetFarm(ctx context.Context, farmID int64) (*entities.Farm, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Farm), args.Error(1)
}

func (m *MockFarmRepository) CreateFarm(ctx context.Context, farm entities.Farm) (*entities.Farm, error) {
	args := m.Called(ctx, farm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Farm), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) ApplyContract(ctx context.Context, app entities.ContractApplication) (*entities.FarmContract, error) {
	args := m.Called(ctx, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FarmContract), args.Error(1)
}

func (m *MockContractRepository) ListMyContracts(ctx context.Context) ([]entities.FarmContract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FarmContract), args.Error(1)
}

func (m *MockContractRepository) ListOwnerContracts(ctx context.Context) ([]entities.FarmContract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FarmContract), args.Error(1)
}

func (m *MockContractRepository) ApproveContract(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FarmContract), args.Error(1)
}

func (m *MockContractRepository) RejectContract(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FarmContract), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) ListRooms(ctx context.Context) ([]entities.ChatRoom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) CreateRoom(ctx context.Context, req entities.CreateRoomRequest) (*entities.ChatRoom, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, roomID int64) ([]entities.ChatMessage, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) SendMessage(ctx context.Context, roomID int64, content string) (*entities.ChatMessage, error) {
	args := m.Called(ctx, roomID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChatMessage), args.Error(1)
}

type MockDiaryRepository struct {
	mock.Mock
}

func (m *MockDiaryRepository) ListDiaries(ctx context.Context) ([]entities.DiaryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DiaryEntry), args.Error(1)
}

func (m *MockDiaryRepository) SearchDiaries(ctx context.Context, keyword string) ([]entities.DiaryEntry, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DiaryEntry), args.Error(1)
}

func (m *MockDiaryRepository) GetDiary(ctx context.Context, diaryID int64) (*entities.DiaryEntry, error) {
	args := m.Called(ctx, diaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiaryEntry), args.Error(1)
}

func (m *MockDiaryRepository) CreateDiary(ctx context.Context, in entities.DiaryInput) (*entities.DiaryEntry, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiaryEntry), args.Error(1)
}

func (m *MockDiaryRepository) UpdateDiary(ctx context.Context, diaryID int64, in entities.DiaryInput) (*entities.DiaryEntry, error) {
	args := m.Called(ctx, diaryID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiaryEntry), args.Error(1)
}

func (m *MockDiaryRepository) DeleteDiary(ctx context.Context, diaryID int64) error {
	args := m.Called(ctx, diaryID)
	return args.Error(0)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) ListShopItems(ctx context.Context) ([]entities.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ShopItem), args.Error(1)
}

func (m *MockShopRepository) ListMyItems(ctx context.Context) ([]entities.UserItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UserItem), args.Error(1)
}

func (m *MockShopRepository) PurchaseItem(ctx context.Context, itemID int64) (*entities.PurchaseResponse, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchaseResponse), args.Error(1)
}

func (m *MockShopRepository) EquipItem(ctx context.Context, userItemID int64) (*entities.UserItem, error) {
	args := m.Called(ctx, userItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserItem), args.Error(1)
}

type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) ListPosts(ctx context.Context, farmID *int64) ([]entities.Post, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Post), args.Error(1)
}

func (m *MockCommunityRepository) GetPost(ctx context.Context, postID int64) (*entities.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockCommunityRepository) CreatePost(ctx context.Context, in entities.PostInput) (*entities.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockCommunityRepository) UpdatePost(ctx context.Context, postID int64, in entities.PostInput) (*entities.Post, error) {
	args := m.Called(ctx, postID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockCommunityRepository) DeletePost(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockCommunityRepository) ListComments(ctx context.Context, postID int64) ([]entities.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Comment), args.Error(1)
}

func (m *MockCommunityRepository) CreateComment(ctx context.Context, in entities.CommentInput) (*entities.Comment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *MockCommunityRepository) DeleteComment(ctx context.Context, commentID int64) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

type MockAIRepository struct {
	mock.Mock
}

func (m *MockAIRepository) AIChat(ctx context.Context, message string) (*entities.AIChatResponse, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AIChatResponse), args.Error(1)
}

func (m *MockAIRepository) AIChatHistory(ctx context.Context) ([]entities.AIChatTurn, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AIChatTurn), args.Error(1)
}

func (m *MockAIRepository) TextSuggestions(ctx context.Context, text string) (*entities.TextSuggestionResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TextSuggestionResponse), args.Error(1)
}

func (m *MockAIRepository) Diagnose(ctx context.Context, photo *entities.Photo) (*entities.Diagnosis, error) {
	args := m.Called(ctx, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Diagnosis), args.Error(1)
}

// staticTokens is a TokenChecker with a fixed answer
type staticTokens bool

func (s staticTokens) HasValidToken(ctx context.Context) bool { return bool(s) }
