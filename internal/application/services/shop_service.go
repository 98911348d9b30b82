package services

import (
	"context"
	"sync"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// BalanceSyncer is the part of the coin store the shop needs
type BalanceSyncer interface {
	Balance() int
	ApplyServerBalance(ctx context.Context, balance int)
	Refresh(ctx context.Context) error
}

// ShopService backs the item shop and the inventory
type ShopService struct {
	repo  repositories.ShopRepository
	coins BalanceSyncer

	mu        sync.RWMutex
	items     []entities.ShopItem
	inventory []entities.UserItem
}

// NewShopService creates a shop service
func NewShopService(repo repositories.ShopRepository, coins BalanceSyncer) *ShopService {
	return &ShopService{repo: repo, coins: coins}
}

// Items loads the catalogue
func (s *ShopService) Items(ctx context.Context) ([]entities.ShopItem, error) {
	items, err := s.repo.ListShopItems(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = append([]entities.ShopItem(nil), items...)
	s.markOwnedLocked()
	out := append([]entities.ShopItem(nil), s.items...)
	s.mu.Unlock()
	return out, nil
}

// Inventory loads the owned items
func (s *ShopService) Inventory(ctx context.Context) ([]entities.UserItem, error) {
	owned, err := s.repo.ListMyItems(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.inventory = append([]entities.UserItem(nil), owned...)
	s.markOwnedLocked()
	out := append([]entities.UserItem(nil), s.inventory...)
	s.mu.Unlock()
	return out, nil
}

func (s *ShopService) markOwnedLocked() {
	owned := make(map[int64]bool, len(s.inventory))
	for _, it := range s.inventory {
		owned[it.ItemID] = true
	}
	for i := range s.items {
		if owned[s.items[i].ItemID] {
			s.items[i].Owned = true
		}
	}
}

// Buy purchases itemID. It is refused locally when the cached balance is below the price.
func (s *ShopService) Buy(ctx context.Context, itemID int64) (*entities.PurchaseResponse, error) {
	item, ok := s.item(itemID)
	if !ok {
		if _, err := s.Items(ctx); err != nil {
			return nil, err
		}
		if item, ok = s.item(itemID); !ok {
			return nil, apperrors.NewNotFoundError("상품을 찾을 수 없습니다.")
		}
	}
	if item.Owned {
		return nil, apperrors.NewConflictError("이미 보유한 아이템입니다.")
	}
	if s.coins.Balance() < item.Price {
		return nil, apperrors.NewValidationError("코인이 부족합니다.")
	}

	resp, err := s.repo.PurchaseItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if resp.CoinBalance != nil {
		s.coins.ApplyServerBalance(ctx, *resp.CoinBalance)
	} else {
		_ = s.coins.Refresh(ctx)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ItemID == itemID {
			s.items[i].Owned = true
		}
	}
	if resp.UserItem != nil {
		s.inventory = append(s.inventory, *resp.UserItem)
	}
	s.mu.Unlock()
	return resp, nil
}

func (s *ShopService) item(itemID int64) (entities.ShopItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ItemID == itemID {
			return it, true
		}
	}
	return entities.ShopItem{}, false
}

// Equip equips userItemID; locally it becomes the only equipped item of its category
func (s *ShopService) Equip(ctx context.Context, userItemID int64) (*entities.UserItem, error) {
	equipped, err := s.repo.EquipItem(ctx, userItemID)
	if err != nil {
		return nil, err
	}
	if equipped.UserItemID == 0 {
		equipped.UserItemID = userItemID
	}
	equipped.Equipped = true

	s.mu.Lock()
	defer s.mu.Unlock()
	category := equipped.Category
	for _, it := range s.inventory {
		if it.UserItemID == userItemID && category == "" {
			category = it.Category
		}
	}
	for i := range s.inventory {
		switch {
		case s.inventory[i].UserItemID == userItemID:
			s.inventory[i].Equipped = true
		case s.inventory[i].Category == category:
			s.inventory[i].Equipped = false
		}
	}
	return equipped, nil
}

// InventorySnapshot returns the owned items as last seen
func (s *ShopService) InventorySnapshot() []entities.UserItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.UserItem(nil), s.inventory...)
}
