// Package httpapi is the JSON invocation boundary of the exchange. It
// does no business logic: handlers decode a request, hand the
// already-validated caller identity and attached payment to the
// engine, and encode the result. Authentication and payment validation
// happen upstream of this process.
package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/exchange"
	"github.com/famewire/famestock-server/utils"
)

type api struct {
	logger *logrus.Entry
	ex     *exchange.Exchange
}

// NewMux builds the route table over the given engine.
func NewMux(ex *exchange.Exchange, tradeFeed http.Handler) *http.ServeMux {
	a := &api{
		logger: utils.Logger.WithFields(logrus.Fields{
			"module": "httpapi",
		}),
		ex: ex,
	}

	mux := http.NewServeMux()

	// Operations
	mux.HandleFunc("POST /stocks", a.withRequestId(a.handleCreateStock))
	mux.HandleFunc("POST /stocks/{id}/auction/start", a.withRequestId(a.handleStartAuction))
	mux.HandleFunc("POST /stocks/{id}/auction/end", a.withRequestId(a.handleEndAuction))
	mux.HandleFunc("POST /stocks/{id}/bids", a.withRequestId(a.handlePlaceBid))
	mux.HandleFunc("POST /stocks/{id}/orders/buy", a.withRequestId(a.handleCreateBuyOrder))
	mux.HandleFunc("POST /stocks/{id}/orders/sell", a.withRequestId(a.handleCreateSellOrder))
	mux.HandleFunc("POST /orders/buy/{id}/cancel", a.withRequestId(a.handleCancelBuyOrder))
	mux.HandleFunc("POST /orders/sell/{id}/cancel", a.withRequestId(a.handleCancelSellOrder))
	mux.HandleFunc("POST /stocks/{id}/quick-buy", a.withRequestId(a.handleQuickBuy))
	mux.HandleFunc("POST /stocks/{id}/quick-sell", a.withRequestId(a.handleQuickSell))

	// Queries
	mux.HandleFunc("GET /stocks", a.withRequestId(a.handleListStocks))
	mux.HandleFunc("GET /stocks/{id}", a.withRequestId(a.handleGetStock))
	mux.HandleFunc("GET /stocks/{id}/bids", a.withRequestId(a.handleListBidsByStock))
	mux.HandleFunc("GET /stocks/{id}/bids/open", a.withRequestId(a.handleListOpenBids))
	mux.HandleFunc("GET /bids/{id}", a.withRequestId(a.handleGetBid))
	mux.HandleFunc("GET /accounts/{account}/bids", a.withRequestId(a.handleListBidsByBidder))
	mux.HandleFunc("GET /stocks/{id}/orders/buy", a.withRequestId(a.handleListBuyOrders))
	mux.HandleFunc("GET /stocks/{id}/orders/sell", a.withRequestId(a.handleListSellOrders))
	mux.HandleFunc("GET /orders/buy/{id}", a.withRequestId(a.handleGetBuyOrder))
	mux.HandleFunc("GET /orders/sell/{id}", a.withRequestId(a.handleGetSellOrder))
	mux.HandleFunc("GET /accounts/{account}/orders/buy", a.withRequestId(a.handleListBuyOrdersByOwner))
	mux.HandleFunc("GET /accounts/{account}/orders/sell", a.withRequestId(a.handleListSellOrdersByOwner))
	mux.HandleFunc("GET /stocks/{id}/shares", a.withRequestId(a.handleListSharesByStock))
	mux.HandleFunc("GET /accounts/{account}/shares", a.withRequestId(a.handleListSharesByOwner))
	mux.HandleFunc("GET /stocks/{id}/sales", a.withRequestId(a.handleListSalesByStock))
	mux.HandleFunc("GET /accounts/{account}/sales", a.withRequestId(a.handleListSalesByAccount))
	mux.HandleFunc("GET /stocks/{id}/quotes/min-bid", a.withRequestId(a.handleMinBidPrice))
	mux.HandleFunc("GET /stocks/{id}/quotes/buy", a.withRequestId(a.handleBuyPrice))
	mux.HandleFunc("GET /stocks/{id}/quotes/sell", a.withRequestId(a.handleSellPrice))
	mux.HandleFunc("GET /stocks/{id}/volume/buy", a.withRequestId(a.handleBuyVolume))
	mux.HandleFunc("GET /stocks/{id}/volume/sell", a.withRequestId(a.handleSellVolume))

	if tradeFeed != nil {
		mux.Handle("GET /ws/trades", tradeFeed)
	}

	return mux
}

// withRequestId tags every request's log entries with a fresh id.
func (a *api) withRequestId(next func(l *logrus.Entry, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := a.logger.WithFields(logrus.Fields{
			"request_id": uuid.New().String(),
			"path":       r.URL.Path,
			"method":     r.Method,
		})
		next(l, w, r)
	}
}
