package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
)

// FarmLoader batches farm lookups. The API has no multi-get, so one batch costs one GET /farms.
type FarmLoader struct {
	loader *dataloader.Loader[int64, *entities.Farm]
}

// NewFarmLoader creates a loader whose results live as long as the loader
func NewFarmLoader(repo repositories.FarmRepository) *FarmLoader {
	return &FarmLoader{
		loader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []int64) []*dataloader.Result[*entities.Farm] {
			results := make([]*dataloader.Result[*entities.Farm], len(keys))
			farms, err := repo.ListFarms(ctx)

			farmMap := make(map[int64]*entities.Farm, len(farms))
			if err == nil {
				for i := range farms {
					farmMap[farms[i].ID] = &farms[i]
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Farm]{Error: err}
				} else if f, ok := farmMap[key]; ok {
					results[i] = &dataloader.Result[*entities.Farm]{Data: f}
				} else {
					results[i] = &dataloader.Result[*entities.Farm]{Error: fmt.Errorf("farm %d not found", key)}
				}
			}
			return results
		}, dataloader.WithWait[int64, *entities.Farm](2*time.Millisecond)),
	}
}

// Load resolves one farm
func (l *FarmLoader) Load(ctx context.Context, farmID int64) (*entities.Farm, error) {
	return l.loader.Load(ctx, farmID)()
}

// Names resolves the names of farmIDs in one batch. Farms that fail to resolve are left out.
func (l *FarmLoader) Names(ctx context.Context, farmIDs []int64) map[int64]string {
	names := make(map[int64]string, len(farmIDs))
	if len(farmIDs) == 0 {
		return names
	}
	farms, _ := l.loader.LoadMany(ctx, farmIDs)()
	for i, f := range farms {
		if f != nil {
			names[farmIDs[i]] = f.Name
		}
	}
	return names
}
