package exchange

import (
	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
	"github.com/famewire/famestock-server/utils"
)

// OrderResult reports a created order, the shares it matched in the
// same invocation, and the resulting fund-transfer intents (seller
// proceeds, plus the buyer's escrow surplus refund for buy orders).
type OrderResult struct {
	OrderId      uint64                `json:"order_id"`
	SharesFilled uint64                `json:"shares_filled"`
	Transfers    []models.FundTransfer `json:"transfers"`
}

// fillFromSellBook buys up to shares from the open sell book, cheapest
// first, oldest first among equal prices. A nonzero limitPrice stops
// matching at the first order priced above it; a nonzero maxCost
// aborts the whole operation with SlippageExceededError as soon as
// cumulative cost would pass it. Each match moves shares through the
// share ledger, records a Sale at the resting order's price, and pays
// the resting seller.
func fillFromSellBook(st store.Store, stockId uint64, buyer string, shares, limitPrice, maxCost uint64, now int64) (filled, cost uint64, transfers []models.FundTransfer, sales []*models.Sale, err error) {
	sellOrders, err := st.OpenSellOrdersByStock(stockId, store.PriceAsc)
	if err != nil {
		return 0, 0, nil, nil, err
	}

	remaining := shares

	for _, sellOrder := range sellOrders {
		if remaining == 0 {
			break
		}
		if limitPrice != 0 && sellOrder.PricePerShare > limitPrice {
			break
		}

		take := utils.MinUint64(remaining, sellOrder.Unfilled())
		batchCost := take * sellOrder.PricePerShare

		if maxCost != 0 && cost+batchCost > maxCost {
			return 0, 0, nil, nil, SlippageExceededError{}
		}

		sellOrder.SoldShares += take
		if sellOrder.SoldShares == sellOrder.AvailableShares {
			sellOrder.ResolvedAt = now
		}
		if err := st.SaveSellOrder(sellOrder); err != nil {
			return 0, 0, nil, nil, err
		}

		if err := debitShares(st, stockId, sellOrder.Owner, take); err != nil {
			return 0, 0, nil, nil, err
		}
		if err := creditShares(st, stockId, buyer, take); err != nil {
			return 0, 0, nil, nil, err
		}

		sale := &models.Sale{
			StockId:       stockId,
			NoOfShares:    take,
			PricePerShare: sellOrder.PricePerShare,
			From:          sellOrder.Owner,
			To:            buyer,
			CreatedAt:     now,
		}
		if err := st.CreateSale(sale); err != nil {
			return 0, 0, nil, nil, err
		}
		sales = append(sales, sale)

		transfers = append(transfers, models.FundTransfer{To: sellOrder.Owner, Amount: batchCost})
		cost += batchCost
		remaining -= take
	}

	return shares - remaining, cost, transfers, sales, nil
}

// fillFromBuyBook sells up to shares into the open buy book, highest
// price first, oldest first among equal prices. A nonzero limitPrice
// stops matching at the first order priced below it. Proceeds go to
// the seller at each resting order's price.
func fillFromBuyBook(st store.Store, stockId uint64, seller string, shares, limitPrice uint64, now int64) (filled, revenue uint64, transfers []models.FundTransfer, sales []*models.Sale, err error) {
	buyOrders, err := st.OpenBuyOrdersByStock(stockId, store.PriceDesc)
	if err != nil {
		return 0, 0, nil, nil, err
	}

	remaining := shares

	for _, buyOrder := range buyOrders {
		if remaining == 0 {
			break
		}
		if limitPrice != 0 && buyOrder.PricePerShare < limitPrice {
			break
		}

		take := utils.MinUint64(remaining, buyOrder.Unfilled())
		batchRevenue := take * buyOrder.PricePerShare

		buyOrder.BoughtShares += take
		if buyOrder.BoughtShares == buyOrder.RequestedShares {
			buyOrder.ResolvedAt = now
		}
		if err := st.SaveBuyOrder(buyOrder); err != nil {
			return 0, 0, nil, nil, err
		}

		if err := debitShares(st, stockId, seller, take); err != nil {
			return 0, 0, nil, nil, err
		}
		if err := creditShares(st, stockId, buyOrder.Owner, take); err != nil {
			return 0, 0, nil, nil, err
		}

		sale := &models.Sale{
			StockId:       stockId,
			NoOfShares:    take,
			PricePerShare: buyOrder.PricePerShare,
			From:          seller,
			To:            buyOrder.Owner,
			CreatedAt:     now,
		}
		if err := st.CreateSale(sale); err != nil {
			return 0, 0, nil, nil, err
		}
		sales = append(sales, sale)

		transfers = append(transfers, models.FundTransfer{To: seller, Amount: batchRevenue})
		revenue += batchRevenue
		remaining -= take
	}

	return shares - remaining, revenue, transfers, sales, nil
}

// CreateBuyOrder places a limit buy. It matches immediately against the
// open sell book; any unmatched remainder rests on the book. The
// attached payment escrows price*shares; whatever the matching pass
// does not spend on fills or the resting remainder is refunded.
func (ex *Exchange) CreateBuyOrder(stockId uint64, owner string, pricePerShare, shares, payment uint64) (*OrderResult, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":              "CreateBuyOrder",
		"param_stockId":       stockId,
		"param_owner":         owner,
		"param_pricePerShare": pricePerShare,
		"param_shares":        shares,
		"param_payment":       payment,
	})
	l.Debugf("Attempting")

	if shares == 0 {
		return nil, InvalidInputError{Reason: "cannot create order with 0 shares"}
	}
	if pricePerShare == 0 {
		return nil, InvalidInputError{Reason: "price per share must be greater than 0"}
	}

	now := ex.clock()
	required, err := mulAmount(pricePerShare, shares)
	if err != nil {
		return nil, err
	}

	res := &OrderResult{}
	var sales []*models.Sale

	err = ex.store.Transact(func(st store.Store) error {
		stock, err := loadStock(st, stockId)
		if err != nil {
			return err
		}
		if !stock.IsInSale(now) {
			return StockNotInSaleError{StockId: stockId}
		}

		if payment < required {
			return NotEnoughFundsError{Sent: payment, Required: required}
		}

		filled, totalCost, transfers, newSales, err := fillFromSellBook(st, stockId, owner, shares, pricePerShare, 0, now)
		if err != nil {
			return err
		}
		sales = newSales

		order := &models.BuyOrder{
			StockId:         stockId,
			Owner:           owner,
			PricePerShare:   pricePerShare,
			RequestedShares: shares,
			BoughtShares:    filled,
			CreatedAt:       now,
		}
		if filled == shares {
			order.ResolvedAt = now
		}
		if err := st.CreateBuyOrder(order); err != nil {
			return err
		}

		// The remainder stays escrowed at the limit price; everything
		// else goes back to the buyer.
		remaining := shares - filled
		if excess := payment - totalCost - remaining*pricePerShare; excess > 0 {
			transfers = append(transfers, models.FundTransfer{To: owner, Amount: excess})
		}

		res.OrderId = order.Id
		res.SharesFilled = filled
		res.Transfers = transfers
		return nil
	})
	if err != nil {
		l.Errorf("Error creating buy order: %+v", err)
		return nil, err
	}

	ex.publishSales(sales)
	l.Infof("Created buy order. Id: %d, filled: %d", res.OrderId, res.SharesFilled)
	return res, nil
}

// CreateSellOrder places a limit sell. The seller must already hold
// the offered shares. It matches immediately against the open buy
// book; any unmatched remainder rests on the book.
func (ex *Exchange) CreateSellOrder(stockId uint64, owner string, pricePerShare, shares uint64) (*OrderResult, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":              "CreateSellOrder",
		"param_stockId":       stockId,
		"param_owner":         owner,
		"param_pricePerShare": pricePerShare,
		"param_shares":        shares,
	})
	l.Debugf("Attempting")

	if shares == 0 {
		return nil, InvalidInputError{Reason: "cannot create order with 0 shares"}
	}
	if pricePerShare == 0 {
		return nil, InvalidInputError{Reason: "price per share must be greater than 0"}
	}

	now := ex.clock()
	res := &OrderResult{}
	var sales []*models.Sale

	err := ex.store.Transact(func(st store.Store) error {
		stock, err := loadStock(st, stockId)
		if err != nil {
			return err
		}
		if !stock.IsInSale(now) {
			return StockNotInSaleError{StockId: stockId}
		}

		share, err := st.ShareByStockAndOwner(stockId, owner)
		if err == store.ErrNotFound {
			return NotEnoughSharesError{Have: 0, Need: shares}
		}
		if err != nil {
			return err
		}
		if share.NoOfShares < shares {
			return NotEnoughSharesError{Have: share.NoOfShares, Need: shares}
		}

		filled, _, transfers, newSales, err := fillFromBuyBook(st, stockId, owner, shares, pricePerShare, now)
		if err != nil {
			return err
		}
		sales = newSales

		order := &models.SellOrder{
			StockId:         stockId,
			Owner:           owner,
			PricePerShare:   pricePerShare,
			AvailableShares: shares,
			SoldShares:      filled,
			CreatedAt:       now,
		}
		if filled == shares {
			order.ResolvedAt = now
		}
		if err := st.CreateSellOrder(order); err != nil {
			return err
		}

		res.OrderId = order.Id
		res.SharesFilled = filled
		res.Transfers = transfers
		return nil
	})
	if err != nil {
		l.Errorf("Error creating sell order: %+v", err)
		return nil, err
	}

	ex.publishSales(sales)
	l.Infof("Created sell order. Id: %d, filled: %d", res.OrderId, res.SharesFilled)
	return res, nil
}

// CancelBuyOrder resolves an open buy order. Only the order's owner may
// cancel it. Cancellation itself moves no funds: escrow for the filled
// portion was settled at match time and the unfilled portion's escrow
// is released by the host when the intent list of this invocation is
// empty.
func (ex *Exchange) CancelBuyOrder(orderId uint64, caller string) error {
	l := ex.logger.WithFields(logrus.Fields{
		"method":        "CancelBuyOrder",
		"param_orderId": orderId,
		"param_caller":  caller,
	})
	l.Debugf("Attempting")

	now := ex.clock()

	err := ex.store.Transact(func(st store.Store) error {
		order, err := st.BuyOrderById(orderId)
		if err == store.ErrNotFound {
			return NotFoundError{Entity: "buy order", Id: orderId}
		}
		if err != nil {
			return err
		}

		if order.Owner != caller {
			return UnauthorizedError{}
		}
		if order.IsResolved() {
			return AlreadyResolvedError{OrderId: orderId}
		}

		order.ResolvedAt = now
		return st.SaveBuyOrder(order)
	})
	if err != nil {
		l.Errorf("Error cancelling buy order: %+v", err)
		return err
	}

	l.Infof("Cancelled buy order %d", orderId)
	return nil
}

// CancelSellOrder resolves an open sell order. Only the order's owner
// may cancel it.
func (ex *Exchange) CancelSellOrder(orderId uint64, caller string) error {
	l := ex.logger.WithFields(logrus.Fields{
		"method":        "CancelSellOrder",
		"param_orderId": orderId,
		"param_caller":  caller,
	})
	l.Debugf("Attempting")

	now := ex.clock()

	err := ex.store.Transact(func(st store.Store) error {
		order, err := st.SellOrderById(orderId)
		if err == store.ErrNotFound {
			return NotFoundError{Entity: "sell order", Id: orderId}
		}
		if err != nil {
			return err
		}

		if order.Owner != caller {
			return UnauthorizedError{}
		}
		if order.IsResolved() {
			return AlreadyResolvedError{OrderId: orderId}
		}

		order.ResolvedAt = now
		return st.SaveSellOrder(order)
	})
	if err != nil {
		l.Errorf("Error cancelling sell order: %+v", err)
		return err
	}

	l.Infof("Cancelled sell order %d", orderId)
	return nil
}
