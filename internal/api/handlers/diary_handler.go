package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

const (
	diaryMetadataPart = "diary"
	diaryImagePart    = "image"
	maxUploadBytes    = 10 << 20
)

// ListDiaries handles GET /api/diary
func (h *Handler) ListDiaries(w http.ResponseWriter, r *http.Request) {
	h.listDiaries(w, r, "")
}

// SearchDiaries handles GET /api/diary/search?keyword=
func (h *Handler) SearchDiaries(w http.ResponseWriter, r *http.Request) {
	h.listDiaries(w, r, strings.TrimSpace(r.URL.Query().Get("keyword")))
}

func (h *Handler) listDiaries(w http.ResponseWriter, r *http.Request, keyword string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	keyword = strings.ToLower(keyword)
	h.state.mu.Lock()
	entries := []entities.DiaryEntry{}
	for _, rec := range h.state.diaries {
		if rec.ownerID != userID {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(rec.entry.Title), keyword) &&
			!strings.Contains(strings.ToLower(rec.entry.Content), keyword) {
			continue
		}
		entries = append(entries, rec.entry)
	}
	h.state.mu.Unlock()
	sortDiaries(entries)
	respondWithJSON(w, http.StatusOK, entries)
}

// GetDiary handles GET /api/diary/{id}
func (h *Handler) GetDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	if rec := h.ownDiary(w, r, userID); rec != nil {
		respondWithJSON(w, http.StatusOK, rec.entry)
	}
}

// CreateDiary handles the multipart POST /api/diary
func (h *Handler) CreateDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	meta, photo, ok := readDiaryForm(w, r)
	if !ok {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	rec := &diaryRecord{
		ownerID: userID,
		entry: entities.DiaryEntry{
			DiaryID:   h.state.nextID("diary"),
			Title:     meta.Title,
			Content:   meta.Content,
			Photo:     photo,
			SelectAt:  echoSelectAt(meta.SelectAt),
			CreatedAt: h.state.timestamp(),
		},
	}
	h.state.diaries = append(h.state.diaries, rec)
	respondWithJSON(w, http.StatusCreated, rec.entry)
}

// UpdateDiary handles the multipart PUT /api/diary/{id}. Without an image part the photo is kept.
func (h *Handler) UpdateDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	meta, photo, ok := readDiaryForm(w, r)
	if !ok {
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	rec := h.ownDiary(w, r, userID)
	if rec == nil {
		return
	}
	rec.entry.Title = meta.Title
	rec.entry.Content = meta.Content
	rec.entry.SelectAt = echoSelectAt(meta.SelectAt)
	if photo != "" {
		rec.entry.Photo = photo
	}
	respondWithJSON(w, http.StatusOK, rec.entry)
}

// DeleteDiary handles DELETE /api/diary/{id}
func (h *Handler) DeleteDiary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	rec := h.ownDiary(w, r, userID)
	if rec == nil {
		return
	}
	kept := h.state.diaries[:0]
	for _, d := range h.state.diaries {
		if d != rec {
			kept = append(kept, d)
		}
	}
	h.state.diaries = kept
	w.WriteHeader(http.StatusNoContent)
}

// ownDiary resolves the {id} diary of userID. Callers hold state.mu.
func (h *Handler) ownDiary(w http.ResponseWriter, r *http.Request, userID int64) *diaryRecord {
	diaryID, ok := pathID(w, r, "id")
	if !ok {
		return nil
	}
	for _, rec := range h.state.diaries {
		if rec.entry.DiaryID == diaryID && rec.ownerID == userID {
			return rec
		}
	}
	respondWithError(w, http.StatusNotFound, "일기를 찾을 수 없습니다.")
	return nil
}

// readDiaryForm reads the metadata part and the optional image, returned as a data URL
func readDiaryForm(w http.ResponseWriter, r *http.Request) (entities.DiaryMetadata, string, bool) {
	var meta entities.DiaryMetadata
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return meta, "", false
	}
	values := r.MultipartForm.Value[diaryMetadataPart]
	if len(values) == 0 || json.Unmarshal([]byte(values[0]), &meta) != nil {
		respondWithError(w, http.StatusBadRequest, "일기 정보가 없습니다.")
		return meta, "", false
	}
	meta.Title = strings.TrimSpace(meta.Title)
	if meta.Title == "" || strings.TrimSpace(meta.Content) == "" {
		respondWithError(w, http.StatusBadRequest, "제목과 내용을 입력하세요.")
		return meta, "", false
	}
	if _, err := time.Parse(entities.DiaryDateLayout, meta.SelectAt); err != nil {
		respondWithError(w, http.StatusBadRequest, "날짜 형식이 올바르지 않습니다.")
		return meta, "", false
	}

	photo, err := readDataURL(r, diaryImagePart)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "이미지를 읽지 못했습니다.")
		return meta, "", false
	}
	return meta, photo, true
}

// readDataURL returns the uploaded file part as a base64 data URL, or "" when it is absent
func readDataURL(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// echoSelectAt renders the civil date the way the server's LocalDateTime column does
func echoSelectAt(date string) string {
	return date + "T00:00:00"
}
