package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

const (
	AIRoleUser      = "user"
	AIRoleAssistant = "assistant"
)

// AIService backs the farming assistant pages
type AIService struct {
	repo repositories.AIRepository
	now  func() time.Time

	mu         sync.RWMutex
	transcript []entities.AIChatTurn
}

// NewAIService creates an AI service
func NewAIService(repo repositories.AIRepository) *AIService {
	return &AIService{repo: repo, now: time.Now}
}

// Chat asks the assistant; the question and the reply are appended to the transcript only on success
func (s *AIService) Chat(ctx context.Context, message string) (*entities.AIChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("질문을 입력하세요.")
	}
	asked := entities.NewTimestamp(s.now())
	resp, err := s.repo.AIChat(ctx, message)
	if err != nil {
		return nil, err
	}
	answered := entities.NewTimestamp(s.now())

	s.mu.Lock()
	s.transcript = append(s.transcript,
		entities.AIChatTurn{Role: AIRoleUser, Content: message, CreatedAt: &asked},
		entities.AIChatTurn{Role: AIRoleAssistant, Content: resp.Reply, CreatedAt: &answered},
	)
	s.mu.Unlock()
	return resp, nil
}

// History replaces the transcript with the stored one
func (s *AIService) History(ctx context.Context) ([]entities.AIChatTurn, error) {
	turns, err := s.repo.AIChatHistory(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.transcript = append([]entities.AIChatTurn(nil), turns...)
	s.mu.Unlock()
	return turns, nil
}

// Transcript returns the local transcript
func (s *AIService) Transcript() []entities.AIChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AIChatTurn(nil), s.transcript...)
}

// Suggestions asks for writing suggestions
func (s *AIService) Suggestions(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("내용을 입력하세요.")
	}
	resp, err := s.repo.TextSuggestions(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Diagnose uploads a crop photo
func (s *AIService) Diagnose(ctx context.Context, photo *entities.Photo) (*entities.Diagnosis, error) {
	return s.repo.Diagnose(ctx, photo)
}
