// Package exchange implements the auction-and-exchange engine: the
// one-time ascending-bid primary auction, the price-time-priority
// secondary order book, slippage-bounded quick trades, the share
// ledger and the sale journal.
//
// Every public operation executes as one atomic step: it runs inside a
// single store transaction, and a failure anywhere discards all of its
// writes and fund-transfer intents. The hosting runtime serializes
// invocations, so there is no locking here.
package exchange

import (
	"math/bits"

	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
	"github.com/famewire/famestock-server/utils"
)

const (
	// TotalShares is the fixed share supply of every stock. May later
	// vary per stock, fixed for now.
	TotalShares uint64 = 1_000_000

	// AuctionDuration is how long a primary auction runs, in
	// milliseconds (24 hours).
	AuctionDuration int64 = 24 * 60 * 60 * 1000

	// MinBidIncrement is the smallest amount by which a new bid must
	// beat the price it outbids.
	MinBidIncrement uint64 = 1
)

// TradeFeed receives every executed sale after its operation commits.
type TradeFeed interface {
	PublishSale(sale *models.Sale)
}

// Exchange is the engine. It consumes only the store interface; the
// storage engine behind it is the host's concern.
type Exchange struct {
	logger *logrus.Entry
	store  store.Store
	// owner is the exchange operator, permitted to end any auction.
	owner string
	feed  TradeFeed
	clock func() int64
}

// NewExchange returns an engine bound to the given store. ownerAccount
// is the operator account; feed may be nil.
func NewExchange(st store.Store, ownerAccount string, feed TradeFeed) *Exchange {
	return &Exchange{
		logger: utils.Logger.WithFields(logrus.Fields{
			"module": "exchange",
		}),
		store: st,
		owner: ownerAccount,
		feed:  feed,
		clock: utils.NowMillis,
	}
}

// Store exposes the underlying ledger store for read-only queries.
func (ex *Exchange) Store() store.Store {
	return ex.store
}

func (ex *Exchange) publishSales(sales []*models.Sale) {
	if ex.feed == nil {
		return
	}
	for _, sale := range sales {
		ex.feed.PublishSale(sale)
	}
}

// mulAmount multiplies two caller-supplied amounts. Any product that
// would wrap uint64 is rejected rather than committed wrapped.
func mulAmount(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, InvalidInputError{Reason: "amount out of range"}
	}
	return lo, nil
}

func addAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, InvalidInputError{Reason: "amount out of range"}
	}
	return sum, nil
}

// loadStock maps the store's not-found to the engine's error type.
func loadStock(st store.Store, stockId uint64) (*models.Stock, error) {
	stock, err := st.StockById(stockId)
	if err == store.ErrNotFound {
		return nil, NotFoundError{Entity: "stock", Id: stockId}
	}
	return stock, err
}
