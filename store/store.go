// Package store defines the ledger-store contract the exchange engine
// runs against: six independently keyed, ordered collections with
// secondary-index listings and an atomic transaction wrapper. The
// matching algorithms consume only this interface; the storage engine
// behind it is swappable (MySQL via gorm in production, an in-memory
// implementation in tests).
package store

import (
	"errors"

	"github.com/famewire/famestock-server/models"
)

// ErrNotFound is returned by every by-id lookup when no row exists.
var ErrNotFound = errors.New("record not found")

// OrderSort selects the ordering of open-order listings. Ties are
// always broken by creation time ascending, then id ascending.
type OrderSort int

const (
	CreatedAtAsc OrderSort = iota
	CreatedAtDesc
	PriceAsc
	PriceDesc
)

// BidFilter narrows bidder listings. Nil fields are ignored.
type BidFilter struct {
	StockId *uint64
	Open    *bool
	Active  *bool
}

// Store is the full ledger-store capability. Create* methods assign the
// entity's id from a per-collection monotonically increasing sequence
// owned by the store; application code never allocates ids.
type Store interface {
	// Transact runs fn against a transactional view of the store. If fn
	// returns an error every write made inside it is rolled back and the
	// error is returned; otherwise the writes commit atomically.
	Transact(fn func(Store) error) error

	StockStore
	BidStore
	BuyOrderStore
	SellOrderStore
	ShareStore
	SaleStore
}

type StockStore interface {
	CreateStock(stock *models.Stock) error
	SaveStock(stock *models.Stock) error
	StockById(id uint64) (*models.Stock, error)
	// AllStocks lists every stock, id ascending.
	AllStocks() ([]*models.Stock, error)
	// StocksByInfluencer lists an influencer's stocks, id descending.
	StocksByInfluencer(influencer string) ([]*models.Stock, error)
}

type BidStore interface {
	CreateBid(bid *models.Bid) error
	SaveBid(bid *models.Bid) error
	BidById(id uint64) (*models.Bid, error)
	// BidsByStock lists every bid of a stock, id descending.
	BidsByStock(stockId uint64) ([]*models.Bid, error)
	// BidsByBidder lists a bidder's bids, id descending, narrowed by f.
	BidsByBidder(bidder string, f BidFilter) ([]*models.Bid, error)
	// OpenBidsByStock lists a stock's open bids ordered by price
	// ascending, ties by id ascending (insertion order). This is the
	// scan order of the cascading outbid and the minimum-price quote.
	OpenBidsByStock(stockId uint64) ([]*models.Bid, error)
}

type BuyOrderStore interface {
	CreateBuyOrder(order *models.BuyOrder) error
	SaveBuyOrder(order *models.BuyOrder) error
	BuyOrderById(id uint64) (*models.BuyOrder, error)
	OpenBuyOrdersByStock(stockId uint64, sort OrderSort) ([]*models.BuyOrder, error)
	OpenBuyOrdersByOwner(owner string, sort OrderSort) ([]*models.BuyOrder, error)
}

type SellOrderStore interface {
	CreateSellOrder(order *models.SellOrder) error
	SaveSellOrder(order *models.SellOrder) error
	SellOrderById(id uint64) (*models.SellOrder, error)
	OpenSellOrdersByStock(stockId uint64, sort OrderSort) ([]*models.SellOrder, error)
	OpenSellOrdersByOwner(owner string, sort OrderSort) ([]*models.SellOrder, error)
}

type ShareStore interface {
	CreateShare(share *models.Share) error
	SaveShare(share *models.Share) error
	// ShareByStockAndOwner returns the unique balance row of an owner in
	// a stock, or ErrNotFound if the owner holds none.
	ShareByStockAndOwner(stockId uint64, owner string) (*models.Share, error)
	SharesByOwner(owner string) ([]*models.Share, error)
	SharesByStock(stockId uint64) ([]*models.Share, error)
}

type SaleStore interface {
	CreateSale(sale *models.Sale) error
	// SalesByStock lists a stock's trade history, id descending (most
	// recent first).
	SalesByStock(stockId uint64) ([]*models.Sale, error)
	// SalesByAccount lists every sale an account took part in, as buyer
	// or seller, id descending.
	SalesByAccount(account string) ([]*models.Sale, error)
}
