package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// GetCoins returns the authoritative balance
func (c *HTTPClient) GetCoins(ctx context.Context) (*entities.CoinBalance, error) {
	out := &entities.CoinBalance{}
	if err := c.getJSON(ctx, "/coins/me", nil, out, "코인 정보를 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCoins credits amount and returns the new balance
func (c *HTTPClient) AddCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error) {
	out := &entities.CoinBalance{}
	req := entities.CoinChangeRequest{Amount: amount, Reason: reason}
	if err := c.sendJSON(ctx, http.MethodPost, "/coins/add", req, out, "코인 적립에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// PurchaseCoins debits amount and returns the new balance
func (c *HTTPClient) PurchaseCoins(ctx context.Context, amount int, reason string) (*entities.CoinBalance, error) {
	out := &entities.CoinBalance{}
	req := entities.CoinChangeRequest{Amount: amount, Reason: reason}
	if err := c.sendJSON(ctx, http.MethodPost, "/coins/purchase", req, out, "코인 사용에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
