package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Yong0-sa/weconnect-sub000/internal/adapters/search"
	"github.com/Yong0-sa/weconnect-sub000/internal/application/services"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

func farmAt(id int64, name string, lat, lon float64) entities.Farm {
	return entities.Farm{ID: id, Name: name, City: "서울", Latitude: &lat, Longitude: &lon}
}

func TestFarmMapService_Viewport(t *testing.T) {
	repo := new(MockFarmRepository)
	repo.On("ListFarms", mock.Anything).Return([]entities.Farm{
		farmAt(1, "먼 농장", 37.61, 127.05),
		farmAt(2, "가까운 농장", 37.561, 127.001),
		farmAt(3, "바깥 농장", 35.1, 129.0),
		{ID: 4, Name: "좌표 없는 농장"},
	}, nil)

	svc := services.NewFarmMapService(repo, search.NewMemoryFarmIndex())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	markers, err := svc.Viewport(context.Background(), entities.Bounds{South: 37.50, West: 126.95, North: 37.62, East: 127.06})
	require.NoError(t, err)
	require.Len(t, markers, 2)
	assert.Equal(t, int64(2), markers[0].Farm.ID)
	assert.Equal(t, int64(1), markers[1].Farm.ID)
	assert.Less(t, markers[0].DistanceKm, markers[1].DistanceKm)

	_, err = svc.Viewport(context.Background(), entities.Bounds{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestFarmMapService_ViewportCapsMarkers(t *testing.T) {
	farms := make([]entities.Farm, 0, services.MaxMarkers+50)
	for i := 0; i < services.MaxMarkers+50; i++ {
		farms = append(farms, farmAt(int64(i+1), fmt.Sprintf("농장 %d", i), 37.0+float64(i)*0.001, 127.0))
	}
	repo := new(MockFarmRepository)
	repo.On("ListFarms", mock.Anything).Return(farms, nil)

	svc := services.NewFarmMapService(repo, search.NewMemoryFarmIndex())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	markers, err := svc.Viewport(context.Background(), entities.Bounds{South: 36, West: 126, North: 38, East: 128})
	require.NoError(t, err)
	assert.Len(t, markers, services.MaxMarkers)
}

func TestFarmMapService_NearestAndSearch(t *testing.T) {
	repo := new(MockFarmRepository)
	repo.On("ListFarms", mock.Anything).Return([]entities.Farm{
		farmAt(1, "햇살농장", 37.55, 127.00),
		farmAt(2, "푸른들", 37.60, 127.05),
		farmAt(3, "바다농원", 35.10, 129.04),
	}, nil)

	svc := services.NewFarmMapService(repo, search.NewMemoryFarmIndex())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	nearest := svc.Nearest(35.0, 129.0, 2)
	require.Len(t, nearest, 2)
	assert.Equal(t, int64(3), nearest[0].Farm.ID)

	found, err := svc.Search(context.Background(), "푸른")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(2), found[0].ID)
}

func TestFarmMapService_Register(t *testing.T) {
	repo := new(MockFarmRepository)
	farm := farmAt(0, "새 농장", 37.5, 127.0)
	created := farm
	created.ID = 10
	repo.On("CreateFarm", mock.Anything, farm).Return(&created, nil)

	svc := services.NewFarmMapService(repo, search.NewMemoryFarmIndex())
	got, err := svc.Register(context.Background(), farm)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)

	found, err := svc.Search(context.Background(), "새 농장")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.Register(context.Background(), entities.Farm{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
