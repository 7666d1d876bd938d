package exchange

import (
	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
)

// QuickTradeResult reports a completed market trade: the realized
// amount, the floor-divided average price per share, and the fund
// transfers the trade produced.
type QuickTradeResult struct {
	Shares        uint64                `json:"shares"`
	Amount        uint64                `json:"amount"`
	PricePerShare uint64                `json:"price_per_share"`
	Transfers     []models.FundTransfer `json:"transfers"`
}

// QuickBuy buys shares at market against the open sell book with a
// fail-closed slippage bound: the whole operation aborts, mutating
// nothing, as soon as cumulative cost would exceed the quoted total
// plus slippage percent. Unspent payment is refunded.
func (ex *Exchange) QuickBuy(stockId uint64, buyer string, shares, slippage, payment uint64) (*QuickTradeResult, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":         "QuickBuy",
		"param_stockId":  stockId,
		"param_buyer":    buyer,
		"param_shares":   shares,
		"param_slippage": slippage,
		"param_payment":  payment,
	})
	l.Debugf("Attempting")

	if shares == 0 {
		return nil, InvalidInputError{Reason: "cannot quick buy 0 shares"}
	}

	now := ex.clock()
	res := &QuickTradeResult{Shares: shares}
	var sales []*models.Sale

	err := ex.store.Transact(func(st store.Store) error {
		stock, err := loadStock(st, stockId)
		if err != nil {
			return err
		}
		if !stock.IsInSale(now) {
			return StockNotInSaleError{StockId: stockId}
		}

		// Fails with a volume error if the sell book is short.
		quote, err := buyPrice(st, stockId, shares)
		if err != nil {
			return err
		}

		slip, err := mulAmount(quote.TotalPrice, slippage)
		if err != nil {
			return err
		}
		maxPrice, err := addAmount(quote.TotalPrice, slip/100)
		if err != nil {
			return err
		}

		if payment < maxPrice {
			return NotEnoughFundsError{Sent: payment, Required: maxPrice}
		}

		filled, cost, transfers, newSales, err := fillFromSellBook(st, stockId, buyer, shares, 0, maxPrice, now)
		if err != nil {
			return err
		}
		if filled < shares {
			// The pre-check covers this, but the bound is all-or-nothing.
			return NotEnoughVolumeError{Side: "sell", Requested: shares, Available: filled}
		}
		sales = newSales

		if excess := payment - cost; excess > 0 {
			transfers = append(transfers, models.FundTransfer{To: buyer, Amount: excess})
		}

		res.Amount = cost
		res.PricePerShare = cost / shares
		res.Transfers = transfers
		return nil
	})
	if err != nil {
		l.Errorf("Error quick buying: %+v", err)
		return nil, err
	}

	ex.publishSales(sales)
	l.Infof("Quick bought %d shares for %d", shares, res.Amount)
	return res, nil
}

// QuickSell sells shares at market into the open buy book. Execution
// is all-or-nothing over the full requested size and fails ahead of
// time, distinctly from a slippage failure, if open demand cannot
// absorb it. The slippage bound compares the achievable proceeds
// against limitPrice*shares minus slippage percent.
func (ex *Exchange) QuickSell(stockId uint64, seller string, shares, limitPrice, slippage uint64) (*QuickTradeResult, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":           "QuickSell",
		"param_stockId":    stockId,
		"param_seller":     seller,
		"param_shares":     shares,
		"param_limitPrice": limitPrice,
		"param_slippage":   slippage,
	})
	l.Debugf("Attempting")

	if shares == 0 {
		return nil, InvalidInputError{Reason: "cannot quick sell 0 shares"}
	}

	now := ex.clock()
	res := &QuickTradeResult{Shares: shares}
	var sales []*models.Sale

	err := ex.store.Transact(func(st store.Store) error {
		stock, err := loadStock(st, stockId)
		if err != nil {
			return err
		}
		if !stock.IsInSale(now) {
			return StockNotInSaleError{StockId: stockId}
		}

		share, err := st.ShareByStockAndOwner(stockId, seller)
		if err == store.ErrNotFound {
			return NotEnoughSharesError{Have: 0, Need: shares}
		}
		if err != nil {
			return err
		}
		if share.NoOfShares < shares {
			return NotEnoughSharesError{Have: share.NoOfShares, Need: shares}
		}

		// Fails with a volume error if the buy book is short.
		quote, err := sellPrice(st, stockId, shares)
		if err != nil {
			return err
		}

		requested, err := mulAmount(limitPrice, shares)
		if err != nil {
			return err
		}
		slip, err := mulAmount(requested, slippage)
		if err != nil {
			return err
		}
		discount := slip / 100
		if discount > requested {
			return InvalidInputError{Reason: "slippage percent over 100"}
		}
		minPrice := requested - discount

		if quote.TotalPrice < minPrice {
			return SlippageExceededError{}
		}

		filled, revenue, transfers, newSales, err := fillFromBuyBook(st, stockId, seller, shares, 0, now)
		if err != nil {
			return err
		}
		if filled < shares {
			return NotEnoughVolumeError{Side: "buy", Requested: shares, Available: filled}
		}
		sales = newSales

		res.Amount = revenue
		res.PricePerShare = revenue / shares
		res.Transfers = transfers
		return nil
	})
	if err != nil {
		l.Errorf("Error quick selling: %+v", err)
		return nil, err
	}

	ex.publishSales(sales)
	l.Infof("Quick sold %d shares for %d", shares, res.Amount)
	return res, nil
}
