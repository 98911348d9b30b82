package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// DiaryRewardCoins is credited for every saved diary entry
const DiaryRewardCoins = 10

// DiaryRewardReason is the reason sent with the diary reward
const DiaryRewardReason = "diary"

// NoticeLevel is the tone of a transient notice
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient message for the user
type Notice struct {
	Level   NoticeLevel
	Message string
}

// DiaryCreateResult is the outcome of saving a new entry
type DiaryCreateResult struct {
	Entry      *entities.DiaryEntry
	CoinEarned bool
	Notice     Notice
}

// CoinEarner credits coins; failures are reported as false
type CoinEarner interface {
	EarnCoins(ctx context.Context, amount int, reason string) bool
}

// DiaryService keeps the diary list of the signed-in user
type DiaryService struct {
	repo  repositories.DiaryRepository
	coins CoinEarner

	mu      sync.RWMutex
	entries []entities.DiaryEntry
}

// NewDiaryService creates a diary service
func NewDiaryService(repo repositories.DiaryRepository, coins CoinEarner) *DiaryService {
	return &DiaryService{repo: repo, coins: coins}
}

// Load replaces the list with every entry
func (s *DiaryService) Load(ctx context.Context) ([]entities.DiaryEntry, error) {
	entries, err := s.repo.ListDiaries(ctx)
	return s.commitList(ctx, entries, err)
}

// Search replaces the list with the server-side search result; a blank keyword loads everything
func (s *DiaryService) Search(ctx context.Context, keyword string) ([]entities.DiaryEntry, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.Load(ctx)
	}
	entries, err := s.repo.SearchDiaries(ctx, keyword)
	return s.commitList(ctx, entries, err)
}

func (s *DiaryService) commitList(ctx context.Context, entries []entities.DiaryEntry, err error) ([]entities.DiaryEntry, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.entries = append([]entities.DiaryEntry(nil), entries...)
	s.mu.Unlock()
	return s.Entries(), nil
}

// Get loads one entry
func (s *DiaryService) Get(ctx context.Context, diaryID int64) (*entities.DiaryEntry, error) {
	return s.repo.GetDiary(ctx, diaryID)
}

// Entries returns a snapshot of the list
func (s *DiaryService) Entries() []entities.DiaryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.DiaryEntry(nil), s.entries...)
}

// Create saves a new entry and then credits the diary reward. The two steps are independent:
// a failed credit never rolls the entry back, it only softens the notice.
func (s *DiaryService) Create(ctx context.Context, in entities.DiaryInput) (*DiaryCreateResult, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	entry, err := s.repo.CreateDiary(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries = append([]entities.DiaryEntry{*entry}, s.entries...)
	s.mu.Unlock()

	result := &DiaryCreateResult{Entry: entry}
	if s.coins != nil && s.coins.EarnCoins(ctx, DiaryRewardCoins, DiaryRewardReason) {
		result.CoinEarned = true
		result.Notice = Notice{
			Level:   NoticeSuccess,
			Message: fmt.Sprintf("일기가 저장되었습니다. 코인 %d개가 지급되었습니다.", DiaryRewardCoins),
		}
	} else {
		observability.LoggerFromContext(ctx).Warn().
			Int64("diary_id", entry.DiaryID).
			Msg("Diary saved without coin reward")
		result.Notice = Notice{
			Level:   NoticeInfo,
			Message: "일기는 저장되었지만 코인 지급에 실패했습니다.",
		}
	}
	return result, nil
}

// Update rewrites an entry and replaces it in the list
func (s *DiaryService) Update(ctx context.Context, diaryID int64, in entities.DiaryInput) (*entities.DiaryEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	entry, err := s.repo.UpdateDiary(ctx, diaryID, in)
	if err != nil {
		return nil, err
	}
	if entry.DiaryID == 0 {
		entry.DiaryID = diaryID
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].DiaryID == diaryID {
			s.entries[i] = *entry
			break
		}
	}
	s.mu.Unlock()
	return entry, nil
}

// Delete removes the entry from the list at once and puts it back if the server refuses
func (s *DiaryService) Delete(ctx context.Context, diaryID int64) error {
	s.mu.Lock()
	index := -1
	var removed entities.DiaryEntry
	for i := range s.entries {
		if s.entries[i].DiaryID == diaryID {
			index = i
			removed = s.entries[i]
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := s.repo.DeleteDiary(ctx, diaryID); err != nil {
		if index >= 0 {
			s.mu.Lock()
			if index > len(s.entries) {
				index = len(s.entries)
			}
			restored := make([]entities.DiaryEntry, 0, len(s.entries)+1)
			restored = append(restored, s.entries[:index]...)
			restored = append(restored, removed)
			restored = append(restored, s.entries[index:]...)
			s.entries = restored
			s.mu.Unlock()
		}
		return err
	}
	return nil
}
