package models

// Bid is a primary-auction bid. RemainingShares shrinks as costlier
// bids outbid it; Open flips to false once it is fully outbid or the
// auction ends; Active flips to false for every bid of a stock when
// that stock's auction ends. Bids are never deleted.
type Bid struct {
	Id              uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	StockId         uint64 `gorm:"column:stockId;not null;index" json:"stock_id"`
	Bidder          string `gorm:"not null;index" json:"bidder"`
	PricePerShare   uint64 `gorm:"column:pricePerShare;not null" json:"price_per_share"`
	SharesRequested uint64 `gorm:"column:sharesRequested;not null" json:"shares_requested"`
	RemainingShares uint64 `gorm:"column:remainingShares;not null" json:"remaining_shares"`
	CreatedAt       int64  `gorm:"column:createdAt;not null" json:"created_at"`
	Open            bool   `gorm:"not null;index:idx_bids_stock_open" json:"open"`
	Active          bool   `gorm:"not null" json:"active"`
}

func (Bid) TableName() string {
	return "Bids"
}
