package models

// Share is the ownership balance of one account in one stock. There is
// at most one Share row per (stock, owner) pair; NoOfShares never goes
// negative.
type Share struct {
	Id         uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	StockId    uint64 `gorm:"column:stockId;not null;index" json:"stock_id"`
	Owner      string `gorm:"not null;index" json:"owner"`
	NoOfShares uint64 `gorm:"column:noOfShares;not null" json:"no_of_shares"`
}

func (Share) TableName() string {
	return "Shares"
}
