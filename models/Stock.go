// Package models holds the persistent entities of the exchange. All
// business logic lives in the exchange package; these types only carry
// state and the state predicates derived from it.
package models

// Stock is a fixed-supply synthetic stock registered by an influencer.
// The auction timestamps are the only fields mutated after creation.
type Stock struct {
	Id          uint64 `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Ticker      string `gorm:"not null" json:"ticker"`
	Influencer  string `gorm:"not null;index" json:"influencer"`
	TotalShares uint64 `gorm:"column:totalShares;not null" json:"total_shares"`
	// AuctionStart and AuctionEnd are unix milliseconds; zero means unset.
	AuctionStart int64 `gorm:"column:auctionStart;not null" json:"auction_start"`
	AuctionEnd   int64 `gorm:"column:auctionEnd;not null" json:"auction_end"`
	CreatedAt    int64 `gorm:"column:createdAt;not null" json:"created_at"`
}

func (Stock) TableName() string {
	return "Stocks"
}

// IsInAuction reports whether the primary auction is running at the
// given time. The boundary is inclusive: a bid placed at exactly
// AuctionEnd is still accepted.
func (s *Stock) IsInAuction(nowMillis int64) bool {
	if s.AuctionStart == 0 {
		return false
	}
	return s.AuctionEnd == 0 || nowMillis <= s.AuctionEnd
}

// IsInSale reports whether the secondary market is open at the given
// time, i.e. the auction has ended.
func (s *Stock) IsInSale(nowMillis int64) bool {
	return s.AuctionEnd != 0 && s.AuctionEnd <= nowMillis
}
