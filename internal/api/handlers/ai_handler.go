package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// AIChat handles POST /api/ai/chat with a canned farming answer
func (h *Handler) AIChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req entities.AIChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondWithError(w, http.StatusBadRequest, "질문을 입력하세요.")
		return
	}
	reply := fmt.Sprintf("%q에 대한 답변입니다. 작물의 잎 색과 흙의 습도를 매일 확인하고, 겉흙이 마르면 물을 충분히 주세요.", message)

	h.state.mu.Lock()
	h.state.aiHistory[userID] = append(h.state.aiHistory[userID],
		entities.AIChatTurn{Role: "user", Content: message, CreatedAt: h.state.timestamp()},
		entities.AIChatTurn{Role: "assistant", Content: reply, CreatedAt: h.state.timestamp()},
	)
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, entities.AIChatResponse{Reply: reply})
}

// AIChatHistory handles GET /api/ai/chat/history
func (h *Handler) AIChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	turns := append([]entities.AIChatTurn{}, h.state.aiHistory[userID]...)
	h.state.mu.Unlock()
	respondWithJSON(w, http.StatusOK, turns)
}

// TextSuggestions handles POST /api/ai/text-suggestions
func (h *Handler) TextSuggestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req entities.TextSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "내용을 입력하세요.")
		return
	}
	respondWithJSON(w, http.StatusOK, entities.TextSuggestionResponse{Suggestions: []string{
		text + " 오늘은 물을 주고 잡초를 뽑았다.",
		text + " 새싹이 어제보다 조금 더 자랐다.",
		text + " 다음 주에는 웃거름을 줄 계획이다.",
	}})
}

var diagnoses = []entities.Diagnosis{
	{Label: "정상", Confidence: 0.91, Advice: "현재 상태를 유지하세요."},
	{Label: "잎마름병", Confidence: 0.78, Advice: "병든 잎을 제거하고 통풍을 개선하세요."},
	{Label: "진딧물", Confidence: 0.83, Advice: "잎 뒷면을 확인하고 친환경 방제제를 사용하세요."},
}

// Diagnose handles the multipart POST /api/ai/diagnosis. The answer is stable for the same image.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}
	image, err := readDataURL(r, "file")
	if err != nil || image == "" {
		respondWithError(w, http.StatusBadRequest, "사진을 선택하세요.")
		return
	}
	sum := fnv.New32a()
	_, _ = sum.Write([]byte(image))
	respondWithJSON(w, http.StatusOK, diagnoses[int(sum.Sum32()%uint32(len(diagnoses)))])
}
