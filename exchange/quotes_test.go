package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumBidPrice(t *testing.T) {
	ex, _ := newTestExchange()
	stock, _ := ex.CreateStock("ALC", "alice")
	_, err := ex.StartAuction(stock.Id, "alice")
	require.NoError(t, err)

	// Only the floor bid: everything outbids price 0.
	min, err := ex.MinimumBidPrice(stock.Id, 100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), min)

	_, err = ex.PlaceBid(stock.Id, "anna", 10, 100_000, 1_000_000)
	require.NoError(t, err)

	// Fits inside the remaining floor shares.
	min, err = ex.MinimumBidPrice(stock.Id, 900_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), min)

	// Needs part of anna's bid, so must beat her price.
	min, err = ex.MinimumBidPrice(stock.Id, 900_001)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), min)

	min, err = ex.MinimumBidPrice(stock.Id, TotalShares)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), min)

	// Oversized requests run past the whole book.
	min, err = ex.MinimumBidPrice(stock.Id, TotalShares+1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), min)
}

func TestBuyPrice(t *testing.T) {
	ex, _ := newTestExchange()
	stockId := newSaleStock(ex)

	_, err := ex.CreateSellOrder(stockId, "bob", 10, 3)
	require.NoError(t, err)
	_, err = ex.CreateSellOrder(stockId, "bob", 11, 10)
	require.NoError(t, err)

	// 3*10 + 1*11 = 41; the average floors to 10.
	quote, err := ex.BuyPrice(stockId, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(41), quote.TotalPrice)
	assert.Equal(t, uint64(10), quote.PricePerShare)

	_, err = ex.BuyPrice(stockId, 14)
	require.IsType(t, NotEnoughVolumeError{}, err)
	assert.Equal(t, uint64(13), err.(NotEnoughVolumeError).Available)
}

func TestSellPrice(t *testing.T) {
	ex, _ := newTestExchange()
	stockId := newSaleStock(ex)

	_, err := ex.CreateBuyOrder(stockId, "carol", 20, 5, 100)
	require.NoError(t, err)
	_, err = ex.CreateBuyOrder(stockId, "dave", 10, 5, 50)
	require.NoError(t, err)

	// Highest bid first: 5*20 + 2*10 = 120; the average floors to 17.
	quote, err := ex.SellPrice(stockId, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), quote.TotalPrice)
	assert.Equal(t, uint64(17), quote.PricePerShare)

	_, err = ex.SellPrice(stockId, 11)
	require.IsType(t, NotEnoughVolumeError{}, err)
	assert.Equal(t, uint64(10), err.(NotEnoughVolumeError).Available)
}

func TestVolumes(t *testing.T) {
	ex, _ := newTestExchange()
	stockId := newSaleStock(ex)

	_, err := ex.CreateSellOrder(stockId, "bob", 10, 30)
	require.NoError(t, err)
	_, err = ex.CreateSellOrder(stockId, "bob", 12, 20)
	require.NoError(t, err)
	_, err = ex.CreateBuyOrder(stockId, "carol", 5, 40, 200)
	require.NoError(t, err)

	sellVol, err := ex.TotalSellVolume(stockId)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), sellVol)

	buyVol, err := ex.TotalBuyVolume(stockId)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), buyVol)
}

// Quotes are read-only: asking twice between mutations gives the same
// answer and leaves the book alone.
func TestQuotesAreReadOnly(t *testing.T) {
	ex, _ := newTestExchange()
	stockId := newSaleStock(ex)

	_, err := ex.CreateSellOrder(stockId, "bob", 10, 100)
	require.NoError(t, err)

	first, err := ex.BuyPrice(stockId, 50)
	require.NoError(t, err)
	second, err := ex.BuyPrice(stockId, 50)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	vol, err := ex.TotalSellVolume(stockId)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), vol)
}
