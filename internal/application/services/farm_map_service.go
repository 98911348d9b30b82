package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// MaxMarkers caps the markers rendered for one viewport
const MaxMarkers = 200

// FarmMapService serves the farm directory map and keyword search
type FarmMapService struct {
	repo  repositories.FarmRepository
	index repositories.FarmIndex

	mu    sync.RWMutex
	farms []entities.Farm
}

// NewFarmMapService creates a farm map service over index
func NewFarmMapService(repo repositories.FarmRepository, index repositories.FarmIndex) *FarmMapService {
	return &FarmMapService{repo: repo, index: index}
}

// Load fetches the directory and rebuilds the index
func (s *FarmMapService) Load(ctx context.Context) ([]entities.Farm, error) {
	farms, err := s.repo.ListFarms(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.index.Replace(ctx, farms); err != nil {
		return nil, apperrors.NewInternalError("index farms", err)
	}

	s.mu.Lock()
	s.farms = append([]entities.Farm(nil), farms...)
	s.mu.Unlock()
	return farms, nil
}

// Farms returns the last loaded directory
func (s *FarmMapService) Farms() []entities.Farm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Farm(nil), s.farms...)
}

// Viewport returns the markers to draw for bounds, nearest to its centre first, at most MaxMarkers
func (s *FarmMapService) Viewport(ctx context.Context, bounds entities.Bounds) ([]entities.Marker, error) {
	if !bounds.Valid() {
		return nil, apperrors.NewValidationError("지도 범위가 올바르지 않습니다.")
	}
	farms, err := s.index.Within(ctx, bounds, MaxMarkers)
	if err != nil {
		return nil, err
	}

	centerLat, centerLon := bounds.Center()
	markers := make([]entities.Marker, 0, len(farms))
	for _, f := range farms {
		lat, lon, ok := f.Coordinates()
		if !ok {
			continue
		}
		markers = append(markers, entities.Marker{
			Farm:       f,
			Latitude:   lat,
			Longitude:  lon,
			DistanceKm: entities.DistanceKm(centerLat, centerLon, lat, lon),
		})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].DistanceKm < markers[j].DistanceKm
	})
	if len(markers) > MaxMarkers {
		markers = markers[:MaxMarkers]
	}
	return markers, nil
}

// Search matches name, address or city
func (s *FarmMapService) Search(ctx context.Context, keyword string) ([]entities.Farm, error) {
	return s.index.Match(ctx, strings.TrimSpace(keyword))
}

// Nearest returns the n geocoded farms closest to the point
func (s *FarmMapService) Nearest(lat, lon float64, n int) []entities.Marker {
	s.mu.RLock()
	markers := make([]entities.Marker, 0, len(s.farms))
	for _, f := range s.farms {
		fLat, fLon, ok := f.Coordinates()
		if !ok {
			continue
		}
		markers = append(markers, entities.Marker{
			Farm:       f,
			Latitude:   fLat,
			Longitude:  fLon,
			DistanceKm: entities.DistanceKm(lat, lon, fLat, fLon),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(markers, func(i, j int) bool {
		if markers[i].DistanceKm != markers[j].DistanceKm {
			return markers[i].DistanceKm < markers[j].DistanceKm
		}
		return markers[i].Farm.ID < markers[j].Farm.ID
	})
	if n > 0 && len(markers) > n {
		markers = markers[:n]
	}
	return markers
}

// Register creates a farm and indexes it
func (s *FarmMapService) Register(ctx context.Context, farm entities.Farm) (*entities.Farm, error) {
	if strings.TrimSpace(farm.Name) == "" {
		return nil, apperrors.NewValidationError("농장 이름을 입력하세요.")
	}
	created, err := s.repo.CreateFarm(ctx, farm)
	if err != nil {
		return nil, err
	}
	if err := s.index.Upsert(ctx, *created); err != nil {
		return nil, apperrors.NewInternalError("index farm", err)
	}

	s.mu.Lock()
	s.farms = append(s.farms, *created)
	s.mu.Unlock()
	return created, nil
}
