package exchange

import (
	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
)

// CreateStock registers a new fixed-supply stock for the caller. The
// caller becomes the stock's influencer.
func (ex *Exchange) CreateStock(ticker string, caller string) (*models.Stock, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":       "CreateStock",
		"param_ticker": ticker,
		"param_caller": caller,
	})
	l.Debugf("Attempting")

	if ticker == "" {
		return nil, InvalidInputError{Reason: "ticker must not be empty"}
	}

	stock := &models.Stock{
		Ticker:      ticker,
		Influencer:  caller,
		TotalShares: TotalShares,
		CreatedAt:   ex.clock(),
	}

	err := ex.store.Transact(func(st store.Store) error {
		return st.CreateStock(stock)
	})
	if err != nil {
		l.Errorf("Error creating stock: %+v", err)
		return nil, err
	}

	l.Infof("Created stock. Id: %d", stock.Id)
	return stock, nil
}

// StartAuction opens the one-time primary auction for a stock: sets the
// 24h auction window and seeds the floor bid, a zero-price bid by the
// influencer for the whole supply. The floor bid keeps the book fully
// allocated; any real bid outbids part of it.
func (ex *Exchange) StartAuction(stockId uint64, caller string) (*models.Stock, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":        "StartAuction",
		"param_stockId": stockId,
		"param_caller":  caller,
	})
	l.Debugf("Attempting")

	now := ex.clock()
	var stock *models.Stock

	err := ex.store.Transact(func(st store.Store) error {
		var err error
		stock, err = loadStock(st, stockId)
		if err != nil {
			return err
		}

		if stock.Influencer != caller {
			return UnauthorizedError{}
		}

		if stock.AuctionEnd != 0 && now > stock.AuctionEnd {
			return AlreadyInSaleError{StockId: stockId}
		}
		if stock.AuctionStart != 0 {
			return AuctionAlreadyStartedError{StockId: stockId}
		}

		stock.AuctionStart = now
		stock.AuctionEnd = now + AuctionDuration
		if err := st.SaveStock(stock); err != nil {
			return err
		}

		floorBid := &models.Bid{
			StockId:         stockId,
			Bidder:          stock.Influencer,
			PricePerShare:   0,
			SharesRequested: stock.TotalShares,
			RemainingShares: stock.TotalShares,
			CreatedAt:       now,
			Open:            true,
			Active:          true,
		}
		return st.CreateBid(floorBid)
	})
	if err != nil {
		l.Errorf("Error starting auction: %+v", err)
		return nil, err
	}

	l.Infof("Started auction. Ends at %d", stock.AuctionEnd)
	return stock, nil
}

// EndAuction closes the auction early (or at any time after start) and
// performs the one-time transition to the secondary market: every
// still-open bid converts into a share credit of its remaining shares,
// all bids close, and every bid of the stock goes inactive. Callable by
// the stock's influencer or the exchange operator.
func (ex *Exchange) EndAuction(stockId uint64, caller string) (*models.Stock, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":        "EndAuction",
		"param_stockId": stockId,
		"param_caller":  caller,
	})
	l.Debugf("Attempting")

	now := ex.clock()
	var stock *models.Stock

	err := ex.store.Transact(func(st store.Store) error {
		var err error
		stock, err = loadStock(st, stockId)
		if err != nil {
			return err
		}

		if caller != ex.owner && caller != stock.Influencer {
			return UnauthorizedError{}
		}

		if stock.AuctionEnd != 0 && now > stock.AuctionEnd {
			return AlreadyInSaleError{StockId: stockId}
		}
		if stock.AuctionStart == 0 {
			return AuctionNotStartedError{StockId: stockId}
		}

		// Freeze the sale boundary at now.
		stock.AuctionEnd = now
		if err := st.SaveStock(stock); err != nil {
			return err
		}

		// Winning (still open) bids become share balances.
		openBids, err := st.OpenBidsByStock(stockId)
		if err != nil {
			return err
		}
		for _, bid := range openBids {
			if bid.RemainingShares > 0 {
				if err := creditShares(st, stockId, bid.Bidder, bid.RemainingShares); err != nil {
					return err
				}
			}
			bid.Open = false
			if err := st.SaveBid(bid); err != nil {
				return err
			}
		}

		// All bids of the stock become historical.
		allBids, err := st.BidsByStock(stockId)
		if err != nil {
			return err
		}
		for _, bid := range allBids {
			bid.Active = false
			if err := st.SaveBid(bid); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		l.Errorf("Error ending auction: %+v", err)
		return nil, err
	}

	l.Infof("Ended auction at %d", now)
	return stock, nil
}
