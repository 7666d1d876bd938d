package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/famewire/famestock-server/exchange"
	"github.com/famewire/famestock-server/store"
)

// caller returns the authenticated account the host attached to the
// request. Identity validation happens before requests reach us.
func caller(r *http.Request) string {
	return r.Header.Get("X-Account-Id")
}

func pathId(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(r.PathValue(name), 10, 64)
}

func queryUint(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
}

func writeJSON(l *logrus.Entry, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.Errorf("Error encoding response: %+v", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the engine's error taxonomy onto HTTP statuses.
func writeError(l *logrus.Entry, w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		class  = "internal"
	)

	switch err.(type) {
	case exchange.NotFoundError:
		status, class = http.StatusNotFound, "not_found"
	case exchange.UnauthorizedError:
		status, class = http.StatusForbidden, "unauthorized"
	case exchange.InvalidInputError:
		status, class = http.StatusBadRequest, "invalid_input"
	case exchange.AuctionNotStartedError, exchange.AuctionEndedError,
		exchange.AuctionAlreadyStartedError, exchange.AlreadyInSaleError,
		exchange.StockNotInSaleError, exchange.AlreadyResolvedError:
		status, class = http.StatusConflict, "state_conflict"
	case exchange.NotEnoughFundsError:
		status, class = http.StatusPaymentRequired, "insufficient_funds"
	case exchange.NotEnoughSharesError:
		status, class = http.StatusConflict, "insufficient_shares"
	case exchange.BidTooLowError:
		status, class = http.StatusBadRequest, "bid_too_low"
	case exchange.SlippageExceededError:
		status, class = http.StatusConflict, "slippage_exceeded"
	case exchange.NotEnoughVolumeError:
		status, class = http.StatusConflict, "insufficient_volume"
	default:
		l.Errorf("Internal error: %+v", err)
	}

	writeJSON(l, w, status, errorResponse{Error: class, Message: err.Error()})
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// --- operations ---

func (a *api) handleCreateStock(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	stock, err := a.ex.CreateStock(req.Ticker, caller(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusCreated, stock)
}

func (a *api) handleStartAuction(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	stock, err := a.ex.StartAuction(id, caller(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, stock)
}

func (a *api) handleEndAuction(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	stock, err := a.ex.EndAuction(id, caller(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, stock)
}

func (a *api) handlePlaceBid(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	var req struct {
		PricePerShare uint64 `json:"price_per_share"`
		Shares        uint64 `json:"shares"`
		Payment       uint64 `json:"payment"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	res, err := a.ex.PlaceBid(id, caller(r), req.PricePerShare, req.Shares, req.Payment)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusCreated, res)
}

func (a *api) handleCreateBuyOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	var req struct {
		PricePerShare uint64 `json:"price_per_share"`
		Shares        uint64 `json:"shares"`
		Payment       uint64 `json:"payment"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	res, err := a.ex.CreateBuyOrder(id, caller(r), req.PricePerShare, req.Shares, req.Payment)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusCreated, res)
}

func (a *api) handleCreateSellOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	var req struct {
		PricePerShare uint64 `json:"price_per_share"`
		Shares        uint64 `json:"shares"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	res, err := a.ex.CreateSellOrder(id, caller(r), req.PricePerShare, req.Shares)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusCreated, res)
}

func (a *api) handleCancelBuyOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed order id"})
		return
	}

	if err := a.ex.CancelBuyOrder(id, caller(r)); err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, map[string]uint64{"cancelled": id})
}

func (a *api) handleCancelSellOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed order id"})
		return
	}

	if err := a.ex.CancelSellOrder(id, caller(r)); err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, map[string]uint64{"cancelled": id})
}

func (a *api) handleQuickBuy(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	var req struct {
		Shares   uint64 `json:"shares"`
		Slippage uint64 `json:"slippage"`
		Payment  uint64 `json:"payment"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	res, err := a.ex.QuickBuy(id, caller(r), req.Shares, req.Slippage, req.Payment)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, res)
}

func (a *api) handleQuickSell(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	var req struct {
		Shares        uint64 `json:"shares"`
		PricePerShare uint64 `json:"price_per_share"`
		Slippage      uint64 `json:"slippage"`
	}
	if err := decode(r, &req); err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed request body"})
		return
	}

	res, err := a.ex.QuickSell(id, caller(r), req.Shares, req.PricePerShare, req.Slippage)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, res)
}

// --- queries ---

func orderSortParam(r *http.Request) store.OrderSort {
	switch r.URL.Query().Get("sort") {
	case "created_asc":
		return store.CreatedAtAsc
	case "created_desc":
		return store.CreatedAtDesc
	case "price_desc":
		return store.PriceDesc
	default:
		return store.PriceAsc
	}
}

func (a *api) handleListStocks(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	if influencer := r.URL.Query().Get("influencer"); influencer != "" {
		stocks, err := a.ex.Store().StocksByInfluencer(influencer)
		if err != nil {
			writeError(l, w, err)
			return
		}
		writeJSON(l, w, http.StatusOK, stocks)
		return
	}

	stocks, err := a.ex.Store().AllStocks()
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, stocks)
}

func (a *api) handleGetStock(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	stock, err := a.ex.Store().StockById(id)
	if err == store.ErrNotFound {
		writeError(l, w, exchange.NotFoundError{Entity: "stock", Id: id})
		return
	}
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, stock)
}

func (a *api) handleListBidsByStock(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	bids, err := a.ex.Store().BidsByStock(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, bids)
}

func (a *api) handleListOpenBids(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	bids, err := a.ex.Store().OpenBidsByStock(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, bids)
}

func (a *api) handleGetBid(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed bid id"})
		return
	}

	bid, err := a.ex.Store().BidById(id)
	if err == store.ErrNotFound {
		writeError(l, w, exchange.NotFoundError{Entity: "bid", Id: id})
		return
	}
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, bid)
}

func (a *api) handleListBidsByBidder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	var filter store.BidFilter

	q := r.URL.Query()
	if v := q.Get("stock_id"); v != "" {
		stockId, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock_id"})
			return
		}
		filter.StockId = &stockId
	}
	if v := q.Get("open"); v != "" {
		open := v == "true"
		filter.Open = &open
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		filter.Active = &active
	}

	bids, err := a.ex.Store().BidsByBidder(r.PathValue("account"), filter)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, bids)
}

func (a *api) handleListBuyOrders(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	orders, err := a.ex.Store().OpenBuyOrdersByStock(id, orderSortParam(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, orders)
}

func (a *api) handleListSellOrders(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	orders, err := a.ex.Store().OpenSellOrdersByStock(id, orderSortParam(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, orders)
}

func (a *api) handleGetBuyOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed order id"})
		return
	}

	order, err := a.ex.Store().BuyOrderById(id)
	if err == store.ErrNotFound {
		writeError(l, w, exchange.NotFoundError{Entity: "buy order", Id: id})
		return
	}
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, order)
}

func (a *api) handleGetSellOrder(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed order id"})
		return
	}

	order, err := a.ex.Store().SellOrderById(id)
	if err == store.ErrNotFound {
		writeError(l, w, exchange.NotFoundError{Entity: "sell order", Id: id})
		return
	}
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, order)
}

func (a *api) handleListBuyOrdersByOwner(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	orders, err := a.ex.Store().OpenBuyOrdersByOwner(r.PathValue("account"), orderSortParam(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, orders)
}

func (a *api) handleListSellOrdersByOwner(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	orders, err := a.ex.Store().OpenSellOrdersByOwner(r.PathValue("account"), orderSortParam(r))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, orders)
}

func (a *api) handleListSharesByStock(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	shares, err := a.ex.Store().SharesByStock(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, shares)
}

func (a *api) handleListSharesByOwner(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	shares, err := a.ex.Store().SharesByOwner(r.PathValue("account"))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, shares)
}

func (a *api) handleListSalesByStock(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	sales, err := a.ex.Store().SalesByStock(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, sales)
}

func (a *api) handleListSalesByAccount(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	sales, err := a.ex.Store().SalesByAccount(r.PathValue("account"))
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, sales)
}

func (a *api) handleMinBidPrice(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}
	shares, err := queryUint(r, "shares")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed shares parameter"})
		return
	}

	minPrice, err := a.ex.MinimumBidPrice(id, shares)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, map[string]uint64{"min_price": minPrice, "shares_requested": shares})
}

func (a *api) handleBuyPrice(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}
	shares, err := queryUint(r, "shares")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed shares parameter"})
		return
	}

	quote, err := a.ex.BuyPrice(id, shares)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, quote)
}

func (a *api) handleSellPrice(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}
	shares, err := queryUint(r, "shares")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed shares parameter"})
		return
	}

	quote, err := a.ex.SellPrice(id, shares)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, quote)
}

func (a *api) handleBuyVolume(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	volume, err := a.ex.TotalBuyVolume(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, map[string]uint64{"volume": volume})
}

func (a *api) handleSellVolume(l *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		writeError(l, w, exchange.InvalidInputError{Reason: "malformed stock id"})
		return
	}

	volume, err := a.ex.TotalSellVolume(id)
	if err != nil {
		writeError(l, w, err)
		return
	}
	writeJSON(l, w, http.StatusOK, map[string]uint64{"volume": volume})
}
