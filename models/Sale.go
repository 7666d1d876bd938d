package models

// Sale is one executed trade leg. Sales are append-only and immutable;
// together they form the canonical trade history of a stock.
type Sale struct {
	Id            uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	StockId       uint64 `gorm:"column:stockId;not null;index" json:"stock_id"`
	NoOfShares    uint64 `gorm:"column:noOfShares;not null" json:"no_of_shares"`
	PricePerShare uint64 `gorm:"column:pricePerShare;not null" json:"price_per_share"`
	From          string `gorm:"column:fromAccount;not null;index" json:"from"`
	To            string `gorm:"column:toAccount;not null;index" json:"to"`
	CreatedAt     int64  `gorm:"column:createdAt;not null" json:"created_at"`
}

func (Sale) TableName() string {
	return "Sales"
}
