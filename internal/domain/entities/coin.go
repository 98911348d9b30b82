package entities

// CoinBalance is the answer of every /coins endpoint.
// CoinBalance is nil when the server replied without one (204, a bare message).
type CoinBalance struct {
	CoinBalance *int `json:"coinBalance,omitempty"`
}

// NewCoinBalance wraps a known balance
func NewCoinBalance(balance int) *CoinBalance {
	return &CoinBalance{CoinBalance: &balance}
}

// CoinChangeRequest is the body of POST /coins/add and /coins/purchase
type CoinChangeRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}
