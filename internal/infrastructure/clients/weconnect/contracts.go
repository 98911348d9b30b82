package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ApplyContract applies for a plot on a farm
func (c *HTTPClient) ApplyContract(ctx context.Context, app entities.ContractApplication) (*entities.FarmContract, error) {
	out := &entities.FarmContract{}
	if err := c.sendJSON(ctx, http.MethodPost, "/farm-contracts", app, out, "신청에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyContracts returns the applications the user sent
func (c *HTTPClient) ListMyContracts(ctx context.Context) ([]entities.FarmContract, error) {
	var out []entities.FarmContract
	if err := c.getJSON(ctx, "/farm-contracts/me", nil, &out, "신청 내역을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnerContracts returns the applications received by the user's farms
func (c *HTTPClient) ListOwnerContracts(ctx context.Context) ([]entities.FarmContract, error) {
	var out []entities.FarmContract
	if err := c.getJSON(ctx, "/farm-contracts/owner", nil, &out, "받은 신청을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveContract approves a received application
func (c *HTTPClient) ApproveContract(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	out := &entities.FarmContract{}
	if err := c.sendJSON(ctx, http.MethodPut, idPath("/farm-contracts/%d/approve", contractID), nil, out, "승인하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// RejectContract rejects a received application
func (c *HTTPClient) RejectContract(ctx context.Context, contractID int64) (*entities.FarmContract, error) {
	out := &entities.FarmContract{}
	if err := c.sendJSON(ctx, http.MethodPut, idPath("/farm-contracts/%d/reject", contractID), nil, out, "거절하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
