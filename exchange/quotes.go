package exchange

import (
	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
	"github.com/famewire/famestock-server/utils"
)

// The quote engine: read-only price discovery. Reads never advance any
// state, so repeated identical queries between mutations return
// identical results.

// PriceQuote is an aggregate price over one side of the open book.
type PriceQuote struct {
	Shares     uint64 `json:"shares"`
	TotalPrice uint64 `json:"total_price"`
	// PricePerShare is TotalPrice/Shares using floor division. Callers
	// must not assume PricePerShare*Shares round-trips to TotalPrice.
	PricePerShare uint64 `json:"price_per_share"`
}

// MinimumBidPrice returns the lowest acceptable price for a bid of the
// given size: one increment above the costliest open bid the new bid
// would have to displace, or 0 if nothing needs outbidding.
func (ex *Exchange) MinimumBidPrice(stockId uint64, sharesRequested uint64) (uint64, error) {
	return minimumBidPrice(ex.store, stockId, sharesRequested)
}

func minimumBidPrice(st store.Store, stockId uint64, sharesRequested uint64) (uint64, error) {
	openBids, err := st.OpenBidsByStock(stockId)
	if err != nil {
		return 0, err
	}
	return minimumBidPriceOf(openBids, sharesRequested), nil
}

func minimumBidPriceOf(openBids []*models.Bid, sharesRequested uint64) uint64 {
	needed := sharesRequested
	for _, bid := range openBids {
		if needed <= bid.RemainingShares {
			// This is the bid the new one must outbid.
			return bid.PricePerShare + MinBidIncrement
		}
		needed -= bid.RemainingShares
	}
	return 0
}

// BuyPrice quotes the aggregate cost of buying n shares against the
// open sell book, cheapest first. Fails if the book holds fewer than n
// shares.
func (ex *Exchange) BuyPrice(stockId uint64, n uint64) (*PriceQuote, error) {
	return buyPrice(ex.store, stockId, n)
}

func buyPrice(st store.Store, stockId uint64, n uint64) (*PriceQuote, error) {
	sellOrders, err := st.OpenSellOrdersByStock(stockId, store.PriceAsc)
	if err != nil {
		return nil, err
	}

	var available uint64
	for _, order := range sellOrders {
		available += order.Unfilled()
	}
	if available < n {
		return nil, NotEnoughVolumeError{Side: "sell", Requested: n, Available: available}
	}

	remaining := n
	var total uint64
	for _, order := range sellOrders {
		if remaining == 0 {
			break
		}
		take := utils.MinUint64(remaining, order.Unfilled())
		total += take * order.PricePerShare
		remaining -= take
	}

	quote := &PriceQuote{Shares: n, TotalPrice: total}
	if n > 0 {
		quote.PricePerShare = total / n
	}
	return quote, nil
}

// SellPrice quotes the aggregate proceeds of selling n shares against
// the open buy book, highest price first. Fails if total open demand
// is below n.
func (ex *Exchange) SellPrice(stockId uint64, n uint64) (*PriceQuote, error) {
	return sellPrice(ex.store, stockId, n)
}

func sellPrice(st store.Store, stockId uint64, n uint64) (*PriceQuote, error) {
	buyOrders, err := st.OpenBuyOrdersByStock(stockId, store.PriceDesc)
	if err != nil {
		return nil, err
	}

	var available uint64
	for _, order := range buyOrders {
		available += order.Unfilled()
	}
	if available < n {
		return nil, NotEnoughVolumeError{Side: "buy", Requested: n, Available: available}
	}

	remaining := n
	var total uint64
	for _, order := range buyOrders {
		if remaining == 0 {
			break
		}
		take := utils.MinUint64(remaining, order.Unfilled())
		total += take * order.PricePerShare
		remaining -= take
	}

	quote := &PriceQuote{Shares: n, TotalPrice: total}
	if n > 0 {
		quote.PricePerShare = total / n
	}
	return quote, nil
}

// TotalSellVolume returns the number of shares currently offered on
// the open sell book.
func (ex *Exchange) TotalSellVolume(stockId uint64) (uint64, error) {
	orders, err := ex.store.OpenSellOrdersByStock(stockId, store.PriceAsc)
	if err != nil {
		return 0, err
	}
	var volume uint64
	for _, order := range orders {
		volume += order.Unfilled()
	}
	return volume, nil
}

// TotalBuyVolume returns the number of shares currently demanded on
// the open buy book.
func (ex *Exchange) TotalBuyVolume(stockId uint64) (uint64, error) {
	orders, err := ex.store.OpenBuyOrdersByStock(stockId, store.PriceDesc)
	if err != nil {
		return 0, err
	}
	var volume uint64
	for _, order := range orders {
		volume += order.Unfilled()
	}
	return volume, nil
}
