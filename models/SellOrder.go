package models

// SellOrder is a secondary-market limit order to sell. SoldShares only
// ever increases; ResolvedAt is set exactly once, when the order fills
// completely or is cancelled. Orders are never deleted.
type SellOrder struct {
	Id              uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	StockId         uint64 `gorm:"column:stockId;not null;index" json:"stock_id"`
	Owner           string `gorm:"not null;index" json:"owner"`
	PricePerShare   uint64 `gorm:"column:pricePerShare;not null" json:"price_per_share"`
	AvailableShares uint64 `gorm:"column:availableShares;not null" json:"available_shares"`
	SoldShares      uint64 `gorm:"column:soldShares;not null" json:"sold_shares"`
	CreatedAt       int64  `gorm:"column:createdAt;not null" json:"created_at"`
	// ResolvedAt is unix milliseconds; zero means the order is still open.
	ResolvedAt int64 `gorm:"column:resolvedAt;not null" json:"resolved_at"`
}

func (SellOrder) TableName() string {
	return "SellOrders"
}

// Unfilled returns the order's remaining supply.
func (o *SellOrder) Unfilled() uint64 {
	return o.AvailableShares - o.SoldShares
}

// IsResolved reports whether the order has been fully filled or cancelled.
func (o *SellOrder) IsResolved() bool {
	return o.ResolvedAt != 0
}
