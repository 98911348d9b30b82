package weconnect

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListFarms returns the whole farm directory
func (c *HTTPClient) ListFarms(ctx context.Context) ([]entities.Farm, error) {
	var out []entities.Farm
	if err := c.getJSON(ctx, "/farms", nil, &out, "농장 목록을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFarm returns a single farm
func (c *HTTPClient) GetFarm(ctx context.Context, farmID int64) (*entities.Farm, error) {
	if farmID <= 0 {
		return nil, fmt.Errorf("farm id is required")
	}
	out := &entities.Farm{}
	if err := c.getJSON(ctx, idPath("/farms/%d", farmID), nil, out, "농장 정보를 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFarm registers a farm owned by the signed-in farmer
func (c *HTTPClient) CreateFarm(ctx context.Context, farm entities.Farm) (*entities.Farm, error) {
	out := &entities.Farm{}
	if err := c.sendJSON(ctx, http.MethodPost, "/farms", farm, out, "농장을 등록하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
