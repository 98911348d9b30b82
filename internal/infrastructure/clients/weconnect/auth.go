package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// Signup registers a new account
func (c *HTTPClient) Signup(ctx context.Context, req entities.SignupRequest) (*entities.MessageResponse, error) {
	out := &entities.MessageResponse{}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/signup", req, out, "회원가입에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// Login opens a cookie session and returns the bearer token handed out with it
func (c *HTTPClient) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	out := &entities.LoginResponse{}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", req, out, "로그인에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout closes the cookie session
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, "로그아웃에 실패했습니다.")
}
