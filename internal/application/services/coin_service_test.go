package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/cache"
	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/events"
	"github.com/Yong0-sa/weconnect-sub000/internal/application/services"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/weconnect"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

func storedBalance(t *testing.T, store providers.CacheProvider) string {
	t.Helper()
	raw, err := store.Get(context.Background(), providers.KeyCoinBalance)
	require.NoError(t, err)
	return string(raw)
}

func TestCoinService_Init(t *testing.T) {
	tests := []struct {
		name   string
		cached *string
		want   int
	}{
		{name: "cached value", cached: strPtr("42"), want: 42},
		{name: "garbage", cached: strPtr("lots"), want: 0},
		{name: "missing", cached: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cache.NewMemoryAdapter()
			if tt.cached != nil {
				require.NoError(t, store.Set(context.Background(), providers.KeyCoinBalance, []byte(*tt.cached), 0))
			}
			coins := services.NewCoinService(new(MockCoinRepository), store, staticTokens(true), nil, "")

			coins.Init(context.Background())

			assert.Equal(t, tt.want, coins.Balance())
		})
	}
}

func TestCoinService_Refresh(t *testing.T) {
	t.Run("no token forces zero and mirrors it", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		require.NoError(t, store.Set(context.Background(), providers.KeyCoinBalance, []byte("300"), 0))
		coins := services.NewCoinService(repo, store, staticTokens(false), nil, "")
		coins.Init(context.Background())
		require.Equal(t, 300, coins.Balance())

		err := coins.Refresh(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, coins.Balance())
		assert.Equal(t, "0", storedBalance(t, store))
		repo.AssertNotCalled(t, "GetCoins", mock.Anything)
	})

	t.Run("server value wins over the cache", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		require.NoError(t, store.Set(context.Background(), providers.KeyCoinBalance, []byte("300"), 0))
		repo.On("GetCoins", mock.Anything).Return(entities.NewCoinBalance(120), nil).Once()
		coins := services.NewCoinService(repo, store, staticTokens(true), nil, "")
		coins.Init(context.Background())

		require.NoError(t, coins.Refresh(context.Background()))

		assert.Equal(t, 120, coins.Balance())
		assert.Equal(t, "120", storedBalance(t, store))
		repo.AssertExpectations(t)
	})

	t.Run("auth failure forces zero", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		repo.On("GetCoins", mock.Anything).Return(nil, apperrors.NewAuthRequiredError())
		coins := services.NewCoinService(repo, store, staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 50)

		err := coins.Refresh(context.Background())

		assert.True(t, apperrors.IsAuthRequired(err))
		assert.Equal(t, 0, coins.Balance())
		assert.Equal(t, "0", storedBalance(t, store))
	})

	t.Run("other failures keep the balance", func(t *testing.T) {
		repo := new(MockCoinRepository)
		repo.On("GetCoins", mock.Anything).Return(nil, errors.New("connection refused"))
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 50)

		err := coins.Refresh(context.Background())

		assert.Error(t, err)
		assert.Equal(t, 50, coins.Balance())
	})

	t.Run("result after cancellation is discarded", func(t *testing.T) {
		repo := new(MockCoinRepository)
		ctx, cancel := context.WithCancel(context.Background())
		repo.On("GetCoins", mock.Anything).
			Run(func(args mock.Arguments) { cancel() }).
			Return(entities.NewCoinBalance(999), nil)
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 7)

		err := coins.Refresh(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 7, coins.Balance())
	})
}

func TestCoinService_EarnAndSpend(t *testing.T) {
	t.Run("earn syncs the returned balance", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		repo.On("AddCoins", mock.Anything, 10, "diary").Return(entities.NewCoinBalance(130), nil)
		coins := services.NewCoinService(repo, store, staticTokens(true), nil, "")

		ok := coins.EarnCoins(context.Background(), 10, "diary")

		assert.True(t, ok)
		assert.Equal(t, 130, coins.Balance())
		assert.Equal(t, "130", storedBalance(t, store))
	})

	t.Run("earn failure is swallowed", func(t *testing.T) {
		repo := new(MockCoinRepository)
		repo.On("AddCoins", mock.Anything, 10, "diary").Return(nil, apperrors.NewRequestFailedError(500, "boom"))
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 20)

		assert.False(t, coins.EarnCoins(context.Background(), 10, "diary"))
		assert.Equal(t, 20, coins.Balance())
	})

	t.Run("spend syncs the returned balance", func(t *testing.T) {
		repo := new(MockCoinRepository)
		repo.On("PurchaseCoins", mock.Anything, 30, "item").Return(entities.NewCoinBalance(70), nil)
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")

		assert.True(t, coins.SpendCoins(context.Background(), 30, "item"))
		assert.Equal(t, 70, coins.Balance())
	})

	t.Run("spend failure is swallowed", func(t *testing.T) {
		repo := new(MockCoinRepository)
		repo.On("PurchaseCoins", mock.Anything, 30, "item").Return(nil, errors.New("network down"))
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 10)

		assert.False(t, coins.SpendCoins(context.Background(), 30, "item"))
		assert.Equal(t, 10, coins.Balance())
	})
}

func TestCoinService_RepliesWithoutBalance(t *testing.T) {
	t.Run("empty earn reply re-reads the balance", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		repo.On("AddCoins", mock.Anything, 10, "diary").Return(&entities.CoinBalance{}, nil)
		repo.On("GetCoins", mock.Anything).Return(entities.NewCoinBalance(60), nil).Once()
		coins := services.NewCoinService(repo, store, staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 50)

		ok := coins.EarnCoins(context.Background(), 10, "diary")

		assert.True(t, ok)
		assert.Equal(t, 60, coins.Balance())
		assert.Equal(t, "60", storedBalance(t, store))
		repo.AssertExpectations(t)
	})

	t.Run("empty spend reply keeps the balance when the re-read fails", func(t *testing.T) {
		repo := new(MockCoinRepository)
		store := cache.NewMemoryAdapter()
		repo.On("PurchaseCoins", mock.Anything, 30, "item").Return(&entities.CoinBalance{}, nil)
		repo.On("GetCoins", mock.Anything).Return(nil, errors.New("connection refused"))
		coins := services.NewCoinService(repo, store, staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 50)

		assert.True(t, coins.SpendCoins(context.Background(), 30, "item"))
		assert.Equal(t, 50, coins.Balance())
		assert.Equal(t, "50", storedBalance(t, store))
	})

	t.Run("refresh without a balance changes nothing", func(t *testing.T) {
		repo := new(MockCoinRepository)
		repo.On("GetCoins", mock.Anything).Return(&entities.CoinBalance{}, nil)
		coins := services.NewCoinService(repo, cache.NewMemoryAdapter(), staticTokens(true), nil, "")
		coins.ApplyServerBalance(context.Background(), 50)

		require.NoError(t, coins.Refresh(context.Background()))
		assert.Equal(t, 50, coins.Balance())
	})
}

func TestCoinService_EmptyServerReplies(t *testing.T) {
	var balance atomic.Int64
	balance.Store(50)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/coins/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"coinBalance":%d}`, balance.Load())
	})
	mux.HandleFunc("/api/coins/add", func(w http.ResponseWriter, r *http.Request) {
		balance.Add(10)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/coins/purchase", func(w http.ResponseWriter, r *http.Request) {
		balance.Add(-30)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := cache.NewMemoryAdapter()
	client := weconnect.NewClient(server.URL + "/api")
	coins := services.NewCoinService(client, store, staticTokens(true), nil, "")
	ctx := context.Background()
	require.NoError(t, coins.Refresh(ctx))
	require.Equal(t, 50, coins.Balance())

	assert.True(t, coins.EarnCoins(ctx, 10, "diary"))
	assert.Equal(t, 60, coins.Balance())
	assert.Equal(t, "60", storedBalance(t, store))

	assert.True(t, coins.SpendCoins(ctx, 30, "item"))
	assert.Equal(t, 30, coins.Balance())
	assert.Equal(t, "30", storedBalance(t, store))
}

func TestCoinService_WatchFollowsOtherSessions(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	store := cache.NewMemoryAdapter()
	channel := providers.GetSessionChannel("user-7")

	repo := new(MockCoinRepository)
	repo.On("AddCoins", mock.Anything, 10, "diary").Return(entities.NewCoinBalance(210), nil)

	writer := services.NewCoinService(repo, store, staticTokens(true), bus, channel)
	reader := services.NewCoinService(repo, store, staticTokens(true), bus, channel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = reader.Watch(ctx)
	}()

	// the subscription is registered asynchronously
	require.Eventually(t, func() bool {
		writer.EarnCoins(context.Background(), 10, "diary")
		return reader.Balance() == 210
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func strPtr(s string) *string { return &s }
