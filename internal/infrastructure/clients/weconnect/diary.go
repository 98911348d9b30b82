package weconnect

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

const (
	diaryMetadataField = "diary"
	diaryImageField    = "image"
)

// ListDiaries returns every entry of the user
func (c *HTTPClient) ListDiaries(ctx context.Context) ([]entities.DiaryEntry, error) {
	var out []entities.DiaryEntry
	if err := c.getJSON(ctx, "/diary", nil, &out, "일기 목록을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchDiaries runs the server-side keyword search
func (c *HTTPClient) SearchDiaries(ctx context.Context, keyword string) ([]entities.DiaryEntry, error) {
	var out []entities.DiaryEntry
	query := url.Values{"keyword": []string{keyword}}
	if err := c.getJSON(ctx, "/diary/search", query, &out, "일기를 검색하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDiary returns one entry
func (c *HTTPClient) GetDiary(ctx context.Context, diaryID int64) (*entities.DiaryEntry, error) {
	out := &entities.DiaryEntry{}
	if err := c.getJSON(ctx, idPath("/diary/%d", diaryID), nil, out, "일기를 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDiary writes a new entry as multipart: JSON metadata plus the optional image
func (c *HTTPClient) CreateDiary(ctx context.Context, in entities.DiaryInput) (*entities.DiaryEntry, error) {
	form, err := diaryForm(in)
	if err != nil {
		return nil, err
	}
	out := &entities.DiaryEntry{}
	if err := c.sendMultipart(ctx, http.MethodPost, "/diary", form, out, "일기를 저장하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDiary rewrites an entry; a nil photo keeps the stored one
func (c *HTTPClient) UpdateDiary(ctx context.Context, diaryID int64, in entities.DiaryInput) (*entities.DiaryEntry, error) {
	form, err := diaryForm(in)
	if err != nil {
		return nil, err
	}
	out := &entities.DiaryEntry{}
	if err := c.sendMultipart(ctx, http.MethodPut, idPath("/diary/%d", diaryID), form, out, "일기를 수정하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDiary removes an entry
func (c *HTTPClient) DeleteDiary(ctx context.Context, diaryID int64) error {
	return c.sendJSON(ctx, http.MethodDelete, idPath("/diary/%d", diaryID), nil, nil, "일기를 삭제하지 못했습니다.")
}

func diaryForm(in entities.DiaryInput) (*multipartBody, error) {
	form := newMultipartBody()
	if err := form.addJSON(diaryMetadataField, in.Metadata()); err != nil {
		return nil, errors.NewInternalError("encode diary metadata", err)
	}
	if err := form.addFile(diaryImageField, in.Photo); err != nil {
		return nil, errors.NewInternalError("encode diary image", err)
	}
	return form, nil
}
