package handlers

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// SignupBonusCoins is credited to every new account
const SignupBonusCoins = 100

type account struct {
	profile      entities.Profile
	passwordHash []byte
	coins        int
}

type diaryRecord struct {
	ownerID int64
	entry   entities.DiaryEntry
}

type userItemRecord struct {
	ownerID int64
	item    entities.UserItem
}

// State is the in-memory data behind the development API
type State struct {
	mu  sync.Mutex
	now func() time.Time
	ids map[string]int64

	accounts  map[int64]*account
	sessions  map[string]int64
	farms     []*entities.Farm
	contracts []*entities.FarmContract
	rooms     []*entities.ChatRoom
	messages  map[int64][]entities.ChatMessage
	diaries   []*diaryRecord
	shopItems []entities.ShopItem
	userItems []*userItemRecord
	posts     []*entities.Post
	comments  []*entities.Comment
	aiHistory map[int64][]entities.AIChatTurn
}

// NewState creates an empty state
func NewState() *State {
	return &State{
		now:       time.Now,
		ids:       make(map[string]int64),
		accounts:  make(map[int64]*account),
		sessions:  make(map[string]int64),
		messages:  make(map[int64][]entities.ChatMessage),
		aiHistory: make(map[int64][]entities.AIChatTurn),
	}
}

// Seed account credentials for local development
const (
	SeedFarmerEmail    = "farmer@weconnect.kr"
	SeedFarmerPassword = "farmer1234"
)

// NewSeededState creates a state with a farm owner, their farms, and the shop catalogue
func NewSeededState() (*State, error) {
	s := NewState()
	owner, err := s.createAccount(entities.SignupRequest{
		Email:    SeedFarmerEmail,
		Password: SeedFarmerPassword,
		Nickname: "햇살농장주",
		Name:     "김농부",
		Role:     entities.RoleFarmer,
	})
	if err != nil {
		return nil, err
	}

	for _, f := range []entities.Farm{
		{Name: "햇살 주말농장", Address: "서울 강동구 둔촌동 12", City: "서울", Phone: "02-111-2222", Latitude: float64Ptr(37.5301), Longitude: float64Ptr(127.1380)},
		{Name: "도시텃밭 마포", Address: "서울 마포구 상암동 45", City: "서울", Phone: "02-333-4444", Latitude: float64Ptr(37.5759), Longitude: float64Ptr(126.8898)},
		{Name: "양평 햇살팜", Address: "경기 양평군 양서면 7", City: "양평", Latitude: float64Ptr(37.5336), Longitude: float64Ptr(127.3160)},
		{Name: "좌표 미등록 농장", Address: "경기 가평군 청평면", City: "가평"},
	} {
		f := f
		f.OwnerID = owner.UserID
		f.OwnerName = owner.Nickname
		s.addFarm(&f)
	}

	s.shopItems = []entities.ShopItem{
		{ItemID: 1, Name: "밀짚모자", Price: 30, Category: "hat"},
		{ItemID: 2, Name: "꽃무늬 모자", Price: 50, Category: "hat"},
		{ItemID: 3, Name: "고무장화", Price: 40, Category: "shoes"},
		{ItemID: 4, Name: "허수아비", Price: 120, Category: "decoration"},
	}
	s.ids["shopItem"] = int64(len(s.shopItems))
	return s, nil
}

func float64Ptr(v float64) *float64 { return &v }

func (s *State) nextID(kind string) int64 {
	s.ids[kind]++
	return s.ids[kind]
}

func (s *State) timestamp() *entities.Timestamp {
	ts := entities.NewTimestamp(s.now().UTC().Truncate(time.Second))
	return &ts
}

// createAccount registers a user. Callers hold mu or own the state exclusively.
func (s *State) createAccount(req entities.SignupRequest) (*entities.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id := s.nextID("user")
	acc := &account{
		profile: entities.Profile{
			UserID:           id,
			Email:            strings.ToLower(strings.TrimSpace(req.Email)),
			Nickname:         strings.TrimSpace(req.Nickname),
			Name:             req.Name,
			Phone:            req.Phone,
			Role:             req.Role,
			MarketingConsent: req.MarketingConsent,
			UpdatedAt:        s.timestamp(),
		},
		passwordHash: hash,
		coins:        SignupBonusCoins,
	}
	s.accounts[id] = acc
	return &acc.profile, nil
}

func (s *State) accountByEmail(email string) *account {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, acc := range s.accounts {
		if acc.profile.Email == email {
			return acc
		}
	}
	return nil
}

func (s *State) nicknameTaken(nickname string, except int64) bool {
	for id, acc := range s.accounts {
		if id != except && acc.profile.Nickname == nickname {
			return true
		}
	}
	return false
}

func (s *State) nickname(userID int64) string {
	if acc, ok := s.accounts[userID]; ok {
		return acc.profile.Nickname
	}
	return ""
}

func (s *State) addFarm(f *entities.Farm) {
	f.ID = s.nextID("farm")
	s.farms = append(s.farms, f)
}

func (s *State) farm(id int64) *entities.Farm {
	for _, f := range s.farms {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// UserIDForSession resolves a SESSION cookie value
func (s *State) UserIDForSession(sessionID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[sessionID]
	if !ok {
		return 0, false
	}
	_, exists := s.accounts[id]
	return id, exists
}

// UserExists reports whether the account behind a bearer token still exists
func (s *State) UserExists(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[userID]
	return ok
}

func sortDiaries(entries []entities.DiaryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SelectAt != entries[j].SelectAt {
			return entries[i].SelectAt > entries[j].SelectAt
		}
		return entries[i].DiaryID > entries[j].DiaryID
	})
}
