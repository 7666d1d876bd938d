package exchange

import (
	"github.com/famewire/famestock-server/store"
)

// testNow is an arbitrary fixed instant the test clock returns.
const testNow int64 = 1_700_000_000_000

func newTestExchange() (*Exchange, *store.MemStore) {
	st := store.NewMemStore()
	ex := NewExchange(st, "operator", nil)
	ex.clock = func() int64 { return testNow }
	return ex, st
}

// newSaleStock drives a stock through the whole primary auction so the
// secondary market is open: alice is the influencer, bob bid for
// 100_000 shares at 10 and the rest stayed with alice via the floor
// bid. Returns the stock id.
func newSaleStock(ex *Exchange) uint64 {
	stock, err := ex.CreateStock("ALC", "alice")
	if err != nil {
		panic(err)
	}
	if _, err := ex.StartAuction(stock.Id, "alice"); err != nil {
		panic(err)
	}
	if _, err := ex.PlaceBid(stock.Id, "bob", 10, 100_000, 1_000_000); err != nil {
		panic(err)
	}
	if _, err := ex.EndAuction(stock.Id, "alice"); err != nil {
		panic(err)
	}
	return stock.Id
}

// totalShares sums every balance of a stock's share ledger.
func totalShares(st *store.MemStore, stockId uint64) uint64 {
	shares, err := st.SharesByStock(stockId)
	if err != nil {
		panic(err)
	}
	var total uint64
	for _, share := range shares {
		total += share.NoOfShares
	}
	return total
}
