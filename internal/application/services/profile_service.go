package services

import (
	"context"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// ProfileService manages the account of the signed-in user
type ProfileService struct {
	auth    repositories.AuthRepository
	repo    repositories.ProfileRepository
	session *SessionService
}

// NewProfileService creates a profile service. session may be nil, then Delete leaves the local token alone.
func NewProfileService(auth repositories.AuthRepository, repo repositories.ProfileRepository, session *SessionService) *ProfileService {
	return &ProfileService{auth: auth, repo: repo, session: session}
}

// Signup creates an account
func (s *ProfileService) Signup(ctx context.Context, req entities.SignupRequest) (*entities.MessageResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return nil, apperrors.NewValidationError("이메일을 확인하세요.")
	case len(req.Password) < 8:
		return nil, apperrors.NewValidationError("비밀번호는 8자 이상이어야 합니다.")
	case req.Nickname == "":
		return nil, apperrors.NewValidationError("닉네임을 입력하세요.")
	case req.Role != entities.RoleFarmer && req.Role != entities.RolePersonal:
		return nil, apperrors.NewValidationError("회원 유형을 선택하세요.")
	}
	return s.auth.Signup(ctx, req)
}

// Me loads the profile
func (s *ProfileService) Me(ctx context.Context) (*entities.Profile, error) {
	return s.repo.GetProfile(ctx)
}

// Update changes the provided fields
func (s *ProfileService) Update(ctx context.Context, update entities.ProfileUpdate) (*entities.Profile, error) {
	if update.Nickname != nil {
		trimmed := strings.TrimSpace(*update.Nickname)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("닉네임을 입력하세요.")
		}
		update.Nickname = &trimmed
	}
	return s.repo.UpdateProfile(ctx, update)
}

// NicknameAvailable asks the server whether nickname is free
func (s *ProfileService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, apperrors.NewValidationError("닉네임을 입력하세요.")
	}
	check, err := s.repo.CheckNickname(ctx, nickname)
	if err != nil {
		return false, err
	}
	return check.Available, nil
}

// VerifyPassword checks the current password
func (s *ProfileService) VerifyPassword(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, apperrors.NewValidationError("비밀번호를 입력하세요.")
	}
	check, err := s.repo.VerifyPassword(ctx, password)
	if err != nil {
		return false, err
	}
	return check.Valid, nil
}

// Delete withdraws the account after the password is confirmed, then clears the local session
func (s *ProfileService) Delete(ctx context.Context, password string) error {
	ok, err := s.VerifyPassword(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("비밀번호가 일치하지 않습니다.")
	}
	if err := s.repo.DeleteProfile(ctx); err != nil {
		return err
	}
	if s.session != nil {
		return s.session.endLocal(ctx)
	}
	return nil
}
