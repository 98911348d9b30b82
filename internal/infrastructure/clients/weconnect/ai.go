package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// AIChat sends one message to the farming assistant
func (c *HTTPClient) AIChat(ctx context.Context, message string) (*entities.AIChatResponse, error) {
	out := &entities.AIChatResponse{}
	req := entities.AIChatRequest{Message: message}
	if err := c.sendJSON(ctx, http.MethodPost, "/ai/chat", req, out, "AI 응답을 받지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// AIChatHistory returns the stored assistant transcript
func (c *HTTPClient) AIChatHistory(ctx context.Context) ([]entities.AIChatTurn, error) {
	var out []entities.AIChatTurn
	if err := c.getJSON(ctx, "/ai/chat/history", nil, &out, "대화 기록을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// TextSuggestions asks for writing suggestions for a diary draft
func (c *HTTPClient) TextSuggestions(ctx context.Context, text string) (*entities.TextSuggestionResponse, error) {
	out := &entities.TextSuggestionResponse{}
	req := entities.TextSuggestionRequest{Text: text}
	if err := c.sendJSON(ctx, http.MethodPost, "/ai/text-suggestions", req, out, "추천 문장을 받지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// Diagnose uploads a crop photo for disease diagnosis
func (c *HTTPClient) Diagnose(ctx context.Context, photo *entities.Photo) (*entities.Diagnosis, error) {
	if photo == nil || len(photo.Data) == 0 {
		return nil, errors.NewValidationError("사진을 선택하세요.")
	}
	form := newMultipartBody()
	if err := form.addFile("file", photo); err != nil {
		return nil, errors.NewInternalError("encode diagnosis image", err)
	}
	out := &entities.Diagnosis{}
	if err := c.sendMultipart(ctx, http.MethodPost, "/ai/diagnosis", form, out, "진단에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
