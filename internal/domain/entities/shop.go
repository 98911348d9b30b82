package entities

// ShopItem is a purchasable decoration
type ShopItem struct {
	ItemID   int64  `json:"itemId"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Owned    bool   `json:"owned,omitempty"`
}

// UserItem is an owned shop item
type UserItem struct {
	UserItemID int64  `json:"userItemId"`
	ItemID     int64  `json:"itemId"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Equipped   bool   `json:"equipped"`
}

// PurchaseRequest is the body of POST /user-items/purchase
type PurchaseRequest struct {
	ItemID int64 `json:"itemId"`
}

// PurchaseResponse is the answer of POST /user-items/purchase
type PurchaseResponse struct {
	CoinBalance *int      `json:"coinBalance,omitempty"`
	UserItem    *UserItem `json:"userItem,omitempty"`
}

// EquipRequest is the body of POST /user-items/equip
type EquipRequest struct {
	UserItemID int64 `json:"userItemId"`
}
