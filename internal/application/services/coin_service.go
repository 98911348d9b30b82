package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

func newOrigin() string {
	return uuid.NewString()
}

// CoinService holds the coin balance. The local store copy is a cache; a value
// fetched from the server always replaces it.
type CoinService struct {
	repo    repositories.CoinRepository
	store   providers.CacheProvider
	tokens  TokenChecker
	bus     providers.EventBus
	channel string
	origin  string
	metrics *observability.Metrics

	mu      sync.RWMutex
	balance int
}

// NewCoinService creates a coin service. bus may be nil.
func NewCoinService(
	repo repositories.CoinRepository,
	store providers.CacheProvider,
	tokens TokenChecker,
	bus providers.EventBus,
	channel string,
) *CoinService {
	return &CoinService{
		repo:    repo,
		store:   store,
		tokens:  tokens,
		bus:     bus,
		channel: channel,
		origin:  newOrigin(),
	}
}

// WithMetrics records local store hits and misses in m
func (s *CoinService) WithMetrics(m *observability.Metrics) *CoinService {
	s.metrics = m
	return s
}

// Init loads the cached balance; a missing or unreadable value counts as 0
func (s *CoinService) Init(ctx context.Context) {
	balance := 0
	raw, err := s.store.Get(ctx, providers.KeyCoinBalance)
	switch {
	case err == nil:
		observability.RecordStoreHit(ctx, s.metrics, providers.KeyCoinBalance)
		if n, convErr := strconv.Atoi(strings.TrimSpace(string(raw))); convErr == nil {
			balance = n
		}
	case errors.Is(err, providers.ErrCacheMiss):
		observability.RecordStoreMiss(ctx, s.metrics, providers.KeyCoinBalance)
	default:
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to read cached coin balance")
	}

	s.mu.Lock()
	s.balance = balance
	s.mu.Unlock()
}

// Balance returns the current balance
func (s *CoinService) Balance() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Refresh fetches the balance. Without a token, or when the server asks for a login,
// the balance becomes 0. Other failures leave it unchanged and are only logged.
// Nothing is committed once ctx is done.
func (s *CoinService) Refresh(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)

	if !s.tokens.HasValidToken(ctx) {
		s.commit(ctx, 0, true)
		return nil
	}

	resp, err := s.repo.GetCoins(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if apperrors.IsAuthRequired(err) {
			s.commit(ctx, 0, true)
			return err
		}
		logger.Warn().Err(err).Msg("Failed to refresh coin balance")
		return err
	}

	if resp == nil || resp.CoinBalance == nil {
		logger.Warn().Msg("Coin balance missing from response")
		return nil
	}
	s.commit(ctx, *resp.CoinBalance, true)
	return nil
}

// SpendCoins debits amount on the server. Failures are logged and reported as false.
func (s *CoinService) SpendCoins(ctx context.Context, amount int, reason string) bool {
	resp, err := s.repo.PurchaseCoins(ctx, amount, reason)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("amount", amount).
			Str("reason", reason).
			Msg("Coin spend failed")
		return false
	}
	s.settle(ctx, resp)
	return true
}

// EarnCoins credits amount on the server. Failures are logged and reported as false.
func (s *CoinService) EarnCoins(ctx context.Context, amount int, reason string) bool {
	resp, err := s.repo.AddCoins(ctx, amount, reason)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("amount", amount).
			Str("reason", reason).
			Msg("Coin earn failed")
		return false
	}
	s.settle(ctx, resp)
	return true
}

// ApplyServerBalance commits a balance returned by another endpoint
func (s *CoinService) ApplyServerBalance(ctx context.Context, balance int) {
	s.commit(ctx, balance, true)
}

// settle commits the balance a mutation returned. A reply without one is followed by a Refresh.
func (s *CoinService) settle(ctx context.Context, resp *entities.CoinBalance) {
	if resp != nil && resp.CoinBalance != nil {
		s.commit(ctx, *resp.CoinBalance, true)
		return
	}
	_ = s.Refresh(ctx)
}

func (s *CoinService) reset(ctx context.Context) {
	s.commit(ctx, 0, false)
}

func (s *CoinService) commit(ctx context.Context, balance int, publish bool) {
	s.mu.Lock()
	s.balance = balance
	s.mu.Unlock()

	logger := observability.LoggerFromContext(ctx)
	if err := s.store.Set(ctx, providers.KeyCoinBalance, []byte(strconv.Itoa(balance)), 0); err != nil {
		logger.Warn().Err(err).Msg("Failed to mirror coin balance")
	}

	if publish && s.bus != nil {
		event := entities.NewSessionEvent(s.origin, entities.SessionEventCoinBalance)
		event.Balance = balance
		if err := s.bus.Publish(ctx, s.channel, event); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish coin balance")
		}
	}
}

// Watch follows the balance committed by other sessions of the same user until ctx is done
func (s *CoinService) Watch(ctx context.Context) error {
	if s.bus == nil {
		<-ctx.Done()
		return nil
	}
	events, err := s.bus.Subscribe(ctx, s.channel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Origin == s.origin {
				continue
			}
			switch ev.Type {
			case entities.SessionEventCoinBalance:
				s.mu.Lock()
				s.balance = ev.Balance
				s.mu.Unlock()
			case entities.SessionEventTokenCleared:
				s.mu.Lock()
				s.balance = 0
				s.mu.Unlock()
			}
		}
	}
}
