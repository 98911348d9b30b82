package weconnect

import (
	"context"
	"net/http"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// ListShopItems returns the shop catalogue
func (c *HTTPClient) ListShopItems(ctx context.Context) ([]entities.ShopItem, error) {
	var out []entities.ShopItem
	if err := c.getJSON(ctx, "/shop-items", nil, &out, "상품 목록을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyItems returns the user's inventory
func (c *HTTPClient) ListMyItems(ctx context.Context) ([]entities.UserItem, error) {
	var out []entities.UserItem
	if err := c.getJSON(ctx, "/user-items/me", nil, &out, "보유 아이템을 불러오지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// PurchaseItem buys a shop item with coins
func (c *HTTPClient) PurchaseItem(ctx context.Context, itemID int64) (*entities.PurchaseResponse, error) {
	out := &entities.PurchaseResponse{}
	req := entities.PurchaseRequest{ItemID: itemID}
	if err := c.sendJSON(ctx, http.MethodPost, "/user-items/purchase", req, out, "구매에 실패했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

// EquipItem equips an owned item
func (c *HTTPClient) EquipItem(ctx context.Context, userItemID int64) (*entities.UserItem, error) {
	out := &entities.UserItem{}
	req := entities.EquipRequest{UserItemID: userItemID}
	if err := c.sendJSON(ctx, http.MethodPost, "/user-items/equip", req, out, "아이템을 장착하지 못했습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
