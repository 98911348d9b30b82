package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/cache"
	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/events"
	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/search"
	"github.com/Yong0-sa/weconnect-sub000/internal/application/services"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/redis"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/typesense"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/weconnect"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	"github.com/Yong0-sa/weconnect-sub000/pkg/config"
)

const usage = `usage: weconnect <command> [flags]

commands:
  login      -email -password
  logout
  coins      [refresh | earn -amount | spend -amount]
  navigate   <path>
  farms      [-q keyword] [-near lat,lon -n] [-south -west -north -east]
  contracts  mine | received | apply -farm -message | approve -id | reject -id
  chat       rooms | open -farm [-farmer] | send -room -text
  diary      list | search -q | create -title -content -date [-photo file] | delete -id
  shop       items | inventory | buy -item | equip -id
  posts      list [-farm] | thread -post | write -title -content [-farm] | comment -post -text [-parent]
  ai         chat -message | suggest -text | diagnose -photo file
  watch      follow coin balance changes from other sessions
`

// app holds the wired client-side services
type app struct {
	cfg     *config.Config
	client  *weconnect.HTTPClient
	store   providers.CacheProvider
	bus     providers.EventBus
	index   repositories.FarmIndex
	session *services.SessionService
	coins   *services.CoinService
	guard   *services.RouteGuard
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries command output, so logs go to stderr
	observability.InitLoggerTo(os.Stderr, "weconnect-cli", cfg.Log.Env)
	logger := observability.GetLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithContext(ctx)

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize client")
	}
	defer cleanup()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		cleanup()
		os.Exit(1)
	}
}

// newApp wires configuration into the client, local store, session bus and farm index
func newApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	logger := observability.LoggerFromContext(ctx)
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}

	// Initialize OpenTelemetry if enabled
	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			closers = append(closers, func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			})
			if metrics, err = observability.InitMetrics(); err != nil {
				logger.Warn().Err(err).Msg("Failed to initialize metrics")
			}
		}
	}

	// Redis backs the store and the session bus when configured
	var redisClient *redis.Client
	if cfg.Storage.Backend == "redis" {
		rc, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		redisClient = rc
		closers = append(closers, func() { _ = rc.Close() })
	}

	var store providers.CacheProvider
	var bus providers.EventBus
	switch cfg.Storage.Backend {
	case "redis":
		store = cache.NewRedisAdapter(redisClient, "weconnect")
		bus = events.NewRedisEventBus(redisClient)
	case "file":
		fileStore, err := cache.NewFileAdapter(cfg.Storage.FilePath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = fileStore
		bus = events.NewMemoryEventBus()
	default:
		store = cache.NewMemoryAdapter()
		bus = events.NewMemoryEventBus()
	}
	closers = append(closers, func() { _ = bus.Close() })

	var index repositories.FarmIndex = search.NewMemoryFarmIndex()
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable, using in-memory farm index")
		} else {
			index = search.NewTypesenseFarmIndex(tsClient)
		}
	}

	opts := []weconnect.Option{
		weconnect.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		weconnect.WithTokenSource(services.StoredToken{Store: store}),
		weconnect.WithRetryAttempts(cfg.API.RetryAttempts),
	}
	if metrics != nil {
		opts = append(opts, weconnect.WithMetrics(metrics))
	}
	client := weconnect.NewClient(cfg.API.BaseURL, opts...)

	channel := providers.GetSessionChannel(cfg.API.BaseURL)
	session := services.NewSessionService(client, store, bus, channel)
	coins := services.NewCoinService(client, store, session, bus, channel)
	if metrics != nil {
		coins.WithMetrics(metrics)
	}
	session.AttachCoins(coins)
	coins.Init(ctx)

	return &app{
		cfg:     cfg,
		client:  client,
		store:   store,
		bus:     bus,
		index:   index,
		session: session,
		coins:   coins,
		guard:   services.NewRouteGuard(session, coins),
	}, cleanup, nil
}
