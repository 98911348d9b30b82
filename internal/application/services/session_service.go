package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// TokenChecker reports whether a usable bearer token is stored
type TokenChecker interface {
	HasValidToken(ctx context.Context) bool
}

// SessionService owns the bearer token kept in the local store
type SessionService struct {
	auth    repositories.AuthRepository
	store   providers.CacheProvider
	bus     providers.EventBus
	channel string
	origin  string
	coins   *CoinService
	now     func() time.Time
	mu      sync.Mutex
}

// NewSessionService creates a session service. bus and coins may be nil.
func NewSessionService(
	auth repositories.AuthRepository,
	store providers.CacheProvider,
	bus providers.EventBus,
	channel string,
) *SessionService {
	return &SessionService{
		auth:    auth,
		store:   store,
		bus:     bus,
		channel: channel,
		origin:  newOrigin(),
		now:     time.Now,
	}
}

// AttachCoins lets Logout reset the coin mirror
func (s *SessionService) AttachCoins(coins *CoinService) {
	s.coins = coins
}

// StoredToken reads the bearer token straight from the local store. It lets the API client be built
// before the session service that depends on it.
type StoredToken struct {
	Store providers.CacheProvider
}

// Token returns the stored bearer token or ""
func (t StoredToken) Token(ctx context.Context) string {
	raw, err := t.Store.Get(ctx, providers.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to read auth token")
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Token returns the stored bearer token or ""
func (s *SessionService) Token(ctx context.Context) string {
	return StoredToken{Store: s.store}.Token(ctx)
}

// SetToken stores token
func (s *SessionService) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewValidationError("로그인 토큰이 없습니다.")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(ctx, providers.KeyAuthToken, []byte(token), 0)
}

// Clear removes the token and tells the other sessions
func (s *SessionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.store.Delete(ctx, providers.KeyAuthToken)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.bus != nil {
		event := entities.NewSessionEvent(s.origin, entities.SessionEventTokenCleared)
		if err := s.bus.Publish(ctx, s.channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to publish logout")
		}
	}
	return nil
}

// HasValidToken is true when a token is stored and, if it is a JWT carrying exp, it has not expired.
// Signatures are not checked here; the server does that.
func (s *SessionService) HasValidToken(ctx context.Context) bool {
	token := s.Token(ctx)
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque session token
		return true
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(s.now()) {
		return false
	}
	return true
}

// AcceptOAuthRedirect stores the token carried by an /oauth2/redirect?token=... callback URL
func (s *SessionService) AcceptOAuthRedirect(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("잘못된 로그인 주소입니다.")
	}
	token := u.Query().Get("token")
	if token == "" {
		return apperrors.NewValidationError("로그인 토큰이 없습니다.")
	}
	return s.SetToken(ctx, token)
}

// Login posts credentials; the session cookie lands in the client jar and the token in the store
func (s *SessionService) Login(ctx context.Context, email, password string) (*entities.LoginResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("이메일과 비밀번호를 입력하세요.")
	}
	resp, err := s.auth.Login(ctx, entities.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := s.SetToken(ctx, resp.Token); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Logout ends the server session, then clears the token and the coin mirror even if the server call failed
func (s *SessionService) Logout(ctx context.Context) error {
	serverErr := s.auth.Logout(ctx)
	if serverErr != nil {
		observability.LoggerFromContext(ctx).Warn().Err(serverErr).Msg("Server logout failed, clearing local session anyway")
	}

	if err := s.endLocal(ctx); err != nil {
		return err
	}
	if serverErr != nil && !apperrors.IsAuthRequired(serverErr) {
		return serverErr
	}
	return nil
}

// endLocal drops the token and zeroes the coin mirror
func (s *SessionService) endLocal(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if s.coins != nil {
		s.coins.reset(ctx)
	}
	return nil
}
