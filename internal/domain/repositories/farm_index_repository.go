package repositories

import (
	"context"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// FarmIndex answers the map and keyword queries of the farm directory
type FarmIndex interface {
	// Replace swaps the indexed directory for farms
	Replace(ctx context.Context, farms []entities.Farm) error

	// Upsert adds or updates a single farm
	Upsert(ctx context.Context, farm entities.Farm) error

	// Within returns geocoded farms inside bounds ordered by distance from the bounds centre,
	// at most limit of them (limit <= 0 means no cap)
	Within(ctx context.Context, bounds entities.Bounds, limit int) ([]entities.Farm, error)

	// Match returns farms whose name, address or city contains keyword
	Match(ctx context.Context, keyword string) ([]entities.Farm, error)
}
