package typesense

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	"github.com/Yong0-sa/weconnect-sub000/pkg/config"
	"github.com/Yong0-sa/weconnect-sub000/pkg/retry"
)

const (
	FarmsCollection = "farms"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client, retrying the health check with exponential backoff
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.LoggerFromContext(ctx)
	retryConfig := retry.DefaultConfig()
	retryConfig.OnRetry = func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("Typesense connection attempt failed, retrying")
	}

	err := retry.Do(ctx, retryConfig, func() error {
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		ok, err := client.Health(healthCtx, 2*time.Second)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("typesense reported unhealthy")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the farms collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == FarmsCollection {
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: FarmsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "farm_id", Type: "int64"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "phone", Type: "string", Optional: pointer.True()},
			{Name: "owner_id", Type: "int64", Optional: pointer.True()},
			{Name: "owner_name", Type: "string", Optional: pointer.True()},
			{Name: "location", Type: "geopoint", Optional: pointer.True()},
			{Name: "has_location", Type: "bool"},
		},
		DefaultSortingField: pointer.String("farm_id"),
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	observability.LoggerFromContext(ctx).Info().Str("collection", FarmsCollection).Msg("Created Typesense collection")
	return nil
}

// DropFarms deletes the farms collection; a missing collection is not an error
func (c *Client) DropFarms(ctx context.Context) error {
	if _, err := c.client.Collection(FarmsCollection).Delete(ctx); err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// UpsertFarm indexes one farm document
func (c *Client) UpsertFarm(ctx context.Context, document map[string]interface{}) error {
	_, err := c.client.Collection(FarmsCollection).Documents().Upsert(ctx, document)
	return err
}
