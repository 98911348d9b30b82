package weconnect

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// GetProfile returns the signed-in user's profile
func (c *HTTPClient) GetProfile(ctx context.Context) (*entities.Profile, error) {
	out := &entities.Profile{}
	if err := c.getJSON(ctx, "/profile/me", nil, out, "프로필을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of update
func (c *HTTPClient) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.Profile, error) {
	out := &entities.Profile{}
	if err := c.sendJSON(ctx, http.MethodPut, "/profile/me", update, out, "프로필을 수정하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProfile deletes the account
func (c *HTTPClient) DeleteProfile(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodDelete, "/profile/me", nil, nil, "회원 탈퇴에 실패했습니다.")
}

// CheckNickname asks whether nickname is still free
func (c *HTTPClient) CheckNickname(ctx context.Context, nickname string) (*entities.NicknameCheck, error) {
	out := &entities.NicknameCheck{}
	query := url.Values{"nickname": []string{nickname}}
	if err := c.getJSON(ctx, "/profile/check-nickname", query, out, "닉네임을 확인하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyPassword checks the current password before sensitive changes
func (c *HTTPClient) VerifyPassword(ctx context.Context, password string) (*entities.PasswordCheck, error) {
	out := &entities.PasswordCheck{}
	body := map[string]string{"password": password}
	if err := c.sendJSON(ctx, http.MethodPost, "/profile/verify-password", body, out, "비밀번호를 확인하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
