package models

// BuyOrder is a secondary-market limit order to buy. BoughtShares only
// ever increases; ResolvedAt is set exactly once, when the order fills
// completely or is cancelled. Orders are never deleted.
type BuyOrder struct {
	Id              uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	StockId         uint64 `gorm:"column:stockId;not null;index" json:"stock_id"`
	Owner           string `gorm:"not null;index" json:"owner"`
	PricePerShare   uint64 `gorm:"column:pricePerShare;not null" json:"price_per_share"`
	RequestedShares uint64 `gorm:"column:requestedShares;not null" json:"requested_shares"`
	BoughtShares    uint64 `gorm:"column:boughtShares;not null" json:"bought_shares"`
	CreatedAt       int64  `gorm:"column:createdAt;not null" json:"created_at"`
	// ResolvedAt is unix milliseconds; zero means the order is still open.
	ResolvedAt int64 `gorm:"column:resolvedAt;not null" json:"resolved_at"`
}

func (BuyOrder) TableName() string {
	return "BuyOrders"
}

// Unfilled returns the order's remaining demand.
func (o *BuyOrder) Unfilled() uint64 {
	return o.RequestedShares - o.BoughtShares
}

// IsResolved reports whether the order has been fully filled or cancelled.
func (o *BuyOrder) IsResolved() bool {
	return o.ResolvedAt != 0
}
