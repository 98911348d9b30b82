package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
)

// MemoryFarmIndex implements FarmIndex over the farm list held in memory
type MemoryFarmIndex struct {
	mu    sync.RWMutex
	farms map[int64]entities.Farm
}

var _ repositories.FarmIndex = (*MemoryFarmIndex)(nil)

// NewMemoryFarmIndex creates an empty index
func NewMemoryFarmIndex() *MemoryFarmIndex {
	return &MemoryFarmIndex{farms: make(map[int64]entities.Farm)}
}

// Replace swaps the indexed directory
func (i *MemoryFarmIndex) Replace(ctx context.Context, farms []entities.Farm) error {
	next := make(map[int64]entities.Farm, len(farms))
	for _, f := range farms {
		next[f.ID] = f
	}
	i.mu.Lock()
	i.farms = next
	i.mu.Unlock()
	return nil
}

// Upsert adds or updates a single farm
func (i *MemoryFarmIndex) Upsert(ctx context.Context, farm entities.Farm) error {
	i.mu.Lock()
	i.farms[farm.ID] = farm
	i.mu.Unlock()
	return nil
}

// Within returns geocoded farms inside bounds, nearest to the centre first
func (i *MemoryFarmIndex) Within(ctx context.Context, bounds entities.Bounds, limit int) ([]entities.Farm, error) {
	if !bounds.Valid() {
		return nil, nil
	}
	centerLat, centerLon := bounds.Center()

	type hit struct {
		farm     entities.Farm
		distance float64
	}
	var hits []hit

	i.mu.RLock()
	for _, f := range i.farms {
		lat, lon, ok := f.Coordinates()
		if !ok || !bounds.Contains(lat, lon) {
			continue
		}
		hits = append(hits, hit{farm: f, distance: entities.DistanceKm(centerLat, centerLon, lat, lon)})
	}
	i.mu.RUnlock()

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].distance != hits[b].distance {
			return hits[a].distance < hits[b].distance
		}
		return hits[a].farm.ID < hits[b].farm.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	farms := make([]entities.Farm, len(hits))
	for n, h := range hits {
		farms[n] = h.farm
	}
	return farms, nil
}

// Match returns farms whose name, address or city contains keyword, ignoring case
func (i *MemoryFarmIndex) Match(ctx context.Context, keyword string) ([]entities.Farm, error) {
	needle := strings.ToLower(strings.TrimSpace(keyword))

	i.mu.RLock()
	matches := make([]entities.Farm, 0, len(i.farms))
	for _, f := range i.farms {
		if needle == "" ||
			strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Address), needle) ||
			strings.Contains(strings.ToLower(f.City), needle) {
			matches = append(matches, f)
		}
	}
	i.mu.RUnlock()

	sort.Slice(matches, func(a, b int) bool { return matches[a].ID < matches[b].ID })
	return matches, nil
}
