package exchange

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
)

// PlaceBidResult reports the created bid and where the attached payment
// went: excess back to the bidder, refunds to displaced bidders, the
// rest to the influencer.
type PlaceBidResult struct {
	BidId     uint64                `json:"bid_id"`
	Transfers []models.FundTransfer `json:"transfers"`
}

// PlaceBid enters a new bid into a running auction. The bid must meet
// the minimum acceptable price for its size and the attached payment
// must cover price*shares. On acceptance the cascading outbid consumes
// cheaper open bids to make room, refunding each displaced bidder from
// the incoming payment; the influencer is paid only for the net new
// allocation, so previously disbursed proceeds are never clawed back.
func (ex *Exchange) PlaceBid(stockId uint64, bidder string, pricePerShare, shares, payment uint64) (*PlaceBidResult, error) {
	l := ex.logger.WithFields(logrus.Fields{
		"method":              "PlaceBid",
		"param_stockId":       stockId,
		"param_bidder":        bidder,
		"param_pricePerShare": pricePerShare,
		"param_shares":        shares,
		"param_payment":       payment,
	})
	l.Debugf("Attempting")

	if shares == 0 {
		return nil, InvalidInputError{Reason: "cannot bid for 0 shares"}
	}

	now := ex.clock()
	expected, err := mulAmount(pricePerShare, shares)
	if err != nil {
		return nil, err
	}

	if payment < expected {
		return nil, NotEnoughFundsError{Sent: payment, Required: expected}
	}

	res := &PlaceBidResult{}

	err = ex.store.Transact(func(st store.Store) error {
		stock, err := loadStock(st, stockId)
		if err != nil {
			return err
		}

		if stock.AuctionEnd != 0 && now > stock.AuctionEnd {
			return AuctionEndedError{StockId: stockId}
		}
		if stock.AuctionStart == 0 {
			return AuctionNotStartedError{StockId: stockId}
		}

		openBids, err := st.OpenBidsByStock(stockId)
		if err != nil {
			return err
		}

		// A bid larger than the open remaining supply could never be
		// covered by the cascade: the book would end up allocating more
		// shares than exist.
		var openRemaining uint64
		for _, open := range openBids {
			openRemaining += open.RemainingShares
		}
		if shares > openRemaining {
			return InvalidInputError{Reason: fmt.Sprintf(
				"bid for %d shares exceeds the %d on offer", shares, openRemaining)}
		}

		minPrice := minimumBidPriceOf(openBids, shares)
		if pricePerShare < minPrice {
			return BidTooLowError{Price: pricePerShare, MinPrice: minPrice}
		}

		bid := &models.Bid{
			StockId:         stockId,
			Bidder:          bidder,
			PricePerShare:   pricePerShare,
			SharesRequested: shares,
			RemainingShares: shares,
			CreatedAt:       now,
			Open:            true,
			Active:          true,
		}
		if err := st.CreateBid(bid); err != nil {
			return err
		}
		res.BidId = bid.Id

		var transfers []models.FundTransfer

		// Excess payment above price*shares goes straight back.
		if excess := payment - expected; excess > 0 {
			transfers = append(transfers, models.FundTransfer{To: bidder, Amount: excess})
		}

		refunds, err := processOutbids(st, bid)
		if err != nil {
			return err
		}

		// Refunds to displaced bidders come out of the incoming payment,
		// so the influencer nets only the new allocation.
		influencerPay := expected
		for _, refund := range refunds {
			if refund.Amount > 0 {
				influencerPay -= refund.Amount
				transfers = append(transfers, refund)
			}
		}

		if influencerPay > 0 {
			transfers = append(transfers, models.FundTransfer{To: stock.Influencer, Amount: influencerPay})
		}

		res.Transfers = transfers
		return nil
	})
	if err != nil {
		l.Errorf("Error placing bid: %+v", err)
		return nil, err
	}

	l.Infof("Placed bid. Id: %d", res.BidId)
	return res, nil
}

// processOutbids runs the cascading outbid for a newly accepted bid:
// it scans the stock's open bids cheapest first and consumes their
// remaining shares until the new bid's size is covered, closing every
// bid it fully absorbs. Returns one refund intent per consumed bid,
// priced at that bid's own price.
func processOutbids(st store.Store, newBid *models.Bid) ([]models.FundTransfer, error) {
	openBids, err := st.OpenBidsByStock(newBid.StockId)
	if err != nil {
		return nil, err
	}

	needed := newBid.SharesRequested
	var refunds []models.FundTransfer

	for _, bid := range openBids {
		if bid.Id == newBid.Id {
			continue
		}

		if needed < bid.RemainingShares {
			// Partially absorbed: shrink it and stop scanning.
			refunds = append(refunds, models.FundTransfer{
				To:     bid.Bidder,
				Amount: bid.PricePerShare * needed,
			})
			bid.RemainingShares -= needed
			if err := st.SaveBid(bid); err != nil {
				return nil, err
			}
			break
		}

		// Fully absorbed: close it.
		needed -= bid.RemainingShares
		refunds = append(refunds, models.FundTransfer{
			To:     bid.Bidder,
			Amount: bid.PricePerShare * bid.RemainingShares,
		})
		bid.RemainingShares = 0
		bid.Open = false
		if err := st.SaveBid(bid); err != nil {
			return nil, err
		}

		if needed == 0 {
			break
		}
	}

	return refunds, nil
}
