package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famewire/famestock-server/models"
)

func TestMemStoreIdsAndNotFound(t *testing.T) {
	s := NewMemStore()

	stock := &models.Stock{Ticker: "ALC", Influencer: "alice"}
	require.NoError(t, s.CreateStock(stock))
	assert.Equal(t, uint64(1), stock.Id)

	other := &models.Stock{Ticker: "BEE", Influencer: "ben"}
	require.NoError(t, s.CreateStock(other))
	assert.Equal(t, uint64(2), other.Id)

	// Each collection runs its own sequence.
	bid := &models.Bid{StockId: stock.Id, Bidder: "anna"}
	require.NoError(t, s.CreateBid(bid))
	assert.Equal(t, uint64(1), bid.Id)

	_, err := s.StockById(99)
	assert.Equal(t, ErrNotFound, err)
	_, err = s.BidById(99)
	assert.Equal(t, ErrNotFound, err)
	_, err = s.ShareByStockAndOwner(stock.Id, "nobody")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemStoreReturnsCopies(t *testing.T) {
	s := NewMemStore()

	stock := &models.Stock{Ticker: "ALC", Influencer: "alice"}
	require.NoError(t, s.CreateStock(stock))

	got, err := s.StockById(stock.Id)
	require.NoError(t, err)
	got.Ticker = "MUTATED"

	again, err := s.StockById(stock.Id)
	require.NoError(t, err)
	assert.Equal(t, "ALC", again.Ticker)
}

// Open bids come back cheapest first, and insertion order breaks price
// ties. The cascading outbid depends on exactly this order.
func TestOpenBidsOrdering(t *testing.T) {
	s := NewMemStore()

	mk := func(price uint64, open bool) *models.Bid {
		bid := &models.Bid{StockId: 1, Bidder: "anna", PricePerShare: price, Open: open}
		require.NoError(t, s.CreateBid(bid))
		return bid
	}

	b1 := mk(5, true)
	b2 := mk(0, true)
	b3 := mk(5, true)
	mk(2, false) // closed, never listed

	bids, err := s.OpenBidsByStock(1)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.Equal(t, b2.Id, bids[0].Id)
	assert.Equal(t, b1.Id, bids[1].Id)
	assert.Equal(t, b3.Id, bids[2].Id)
}

func TestBidsByBidderFilter(t *testing.T) {
	s := NewMemStore()

	mk := func(stockId uint64, bidder string, open, active bool) {
		require.NoError(t, s.CreateBid(&models.Bid{
			StockId: stockId, Bidder: bidder, Open: open, Active: active,
		}))
	}
	mk(1, "anna", true, true)
	mk(1, "anna", false, true)
	mk(2, "anna", false, false)
	mk(1, "ben", true, true)

	all, err := s.BidsByBidder("anna", BidFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, uint64(3), all[0].Id)

	stockId := uint64(1)
	open := true
	filtered, err := s.BidsByBidder("anna", BidFilter{StockId: &stockId, Open: &open})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, uint64(1), filtered[0].Id)

	active := false
	inactive, err := s.BidsByBidder("anna", BidFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, uint64(2), inactive[0].Id)
}

func TestOpenOrderSorting(t *testing.T) {
	s := NewMemStore()

	mk := func(price uint64, createdAt int64) *models.SellOrder {
		order := &models.SellOrder{
			StockId: 1, Owner: "bob", PricePerShare: price,
			AvailableShares: 10, CreatedAt: createdAt,
		}
		require.NoError(t, s.CreateSellOrder(order))
		return order
	}

	o1 := mk(10, 300)
	o2 := mk(20, 100)
	o3 := mk(10, 200)
	resolved := mk(5, 50)
	resolved.ResolvedAt = 400
	require.NoError(t, s.SaveSellOrder(resolved))

	byPrice, err := s.OpenSellOrdersByStock(1, PriceAsc)
	require.NoError(t, err)
	require.Len(t, byPrice, 3)
	// Equal prices fall back to createdAt.
	assert.Equal(t, []uint64{o3.Id, o1.Id, o2.Id}, []uint64{byPrice[0].Id, byPrice[1].Id, byPrice[2].Id})

	byPriceDesc, err := s.OpenSellOrdersByStock(1, PriceDesc)
	require.NoError(t, err)
	assert.Equal(t, o2.Id, byPriceDesc[0].Id)

	byCreated, err := s.OpenSellOrdersByStock(1, CreatedAtAsc)
	require.NoError(t, err)
	assert.Equal(t, []uint64{o2.Id, o3.Id, o1.Id}, []uint64{byCreated[0].Id, byCreated[1].Id, byCreated[2].Id})

	byCreatedDesc, err := s.OpenSellOrdersByStock(1, CreatedAtDesc)
	require.NoError(t, err)
	assert.Equal(t, o1.Id, byCreatedDesc[0].Id)
}

func TestBuyOrderTimeTieBreak(t *testing.T) {
	s := NewMemStore()

	mk := func(price uint64) *models.BuyOrder {
		order := &models.BuyOrder{
			StockId: 1, Owner: "carol", PricePerShare: price,
			RequestedShares: 10, CreatedAt: 100,
		}
		require.NoError(t, s.CreateBuyOrder(order))
		return order
	}

	o1 := mk(15)
	o2 := mk(15)

	// Identical price and createdAt: the lower id came first.
	orders, err := s.OpenBuyOrdersByStock(1, PriceDesc)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, o1.Id, orders[0].Id)
	assert.Equal(t, o2.Id, orders[1].Id)
}

func TestTransactRollback(t *testing.T) {
	s := NewMemStore()

	stock := &models.Stock{Ticker: "ALC", Influencer: "alice"}
	require.NoError(t, s.CreateStock(stock))

	boom := errors.New("boom")
	err := s.Transact(func(tx Store) error {
		loaded, err := tx.StockById(stock.Id)
		require.NoError(t, err)
		loaded.Ticker = "CHANGED"
		require.NoError(t, tx.SaveStock(loaded))
		require.NoError(t, tx.CreateStock(&models.Stock{Ticker: "NEW"}))
		require.NoError(t, tx.CreateBid(&models.Bid{StockId: stock.Id}))
		return boom
	})
	assert.Equal(t, boom, err)

	got, err := s.StockById(stock.Id)
	require.NoError(t, err)
	assert.Equal(t, "ALC", got.Ticker)

	stocks, err := s.AllStocks()
	require.NoError(t, err)
	assert.Len(t, stocks, 1)

	// The id sequence rolls back too, so a committed retry reuses it.
	fresh := &models.Stock{Ticker: "NEW"}
	require.NoError(t, s.Transact(func(tx Store) error {
		return tx.CreateStock(fresh)
	}))
	assert.Equal(t, uint64(2), fresh.Id)
}

func TestSalesListings(t *testing.T) {
	s := NewMemStore()

	mk := func(stockId uint64, from, to string) {
		require.NoError(t, s.CreateSale(&models.Sale{
			StockId: stockId, From: from, To: to, NoOfShares: 1, PricePerShare: 1,
		}))
	}
	mk(1, "bob", "carol")
	mk(1, "carol", "dave")
	mk(2, "bob", "dave")

	byStock, err := s.SalesByStock(1)
	require.NoError(t, err)
	require.Len(t, byStock, 2)
	// Newest first.
	assert.Equal(t, uint64(2), byStock[0].Id)

	byAccount, err := s.SalesByAccount("carol")
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	byAccount, err = s.SalesByAccount("dave")
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)
}
