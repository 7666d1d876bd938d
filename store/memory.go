package store

import (
	"sort"

	"github.com/famewire/famestock-server/models"
)

// MemStore is an in-memory Store. It mirrors the ordering contract of
// the database-backed store exactly and is what the engine tests run
// against. Like the real store it assumes the host serializes
// invocations; it is not safe for concurrent use.
type MemStore struct {
	stocks     map[uint64]models.Stock
	bids       map[uint64]models.Bid
	buyOrders  map[uint64]models.BuyOrder
	sellOrders map[uint64]models.SellOrder
	shares     map[uint64]models.Share
	sales      map[uint64]models.Sale
	seq        map[string]uint64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		stocks:     make(map[uint64]models.Stock),
		bids:       make(map[uint64]models.Bid),
		buyOrders:  make(map[uint64]models.BuyOrder),
		sellOrders: make(map[uint64]models.SellOrder),
		shares:     make(map[uint64]models.Share),
		sales:      make(map[uint64]models.Sale),
		seq:        make(map[string]uint64),
	}
}

func (s *MemStore) nextId(collection string) uint64 {
	s.seq[collection]++
	return s.seq[collection]
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Transact snapshots the whole store, runs fn against it, and restores
// the snapshot if fn fails. Entity values hold no pointers, so copying
// the maps is a full deep copy.
func (s *MemStore) Transact(fn func(Store) error) error {
	snapshot := MemStore{
		stocks:     copyMap(s.stocks),
		bids:       copyMap(s.bids),
		buyOrders:  copyMap(s.buyOrders),
		sellOrders: copyMap(s.sellOrders),
		shares:     copyMap(s.shares),
		sales:      copyMap(s.sales),
		seq:        copyMap(s.seq),
	}

	if err := fn(s); err != nil {
		*s = snapshot
		return err
	}
	return nil
}

func sortedIds[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- stocks ---

func (s *MemStore) CreateStock(stock *models.Stock) error {
	stock.Id = s.nextId("stocks")
	s.stocks[stock.Id] = *stock
	return nil
}

func (s *MemStore) SaveStock(stock *models.Stock) error {
	s.stocks[stock.Id] = *stock
	return nil
}

func (s *MemStore) StockById(id uint64) (*models.Stock, error) {
	stock, ok := s.stocks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &stock, nil
}

func (s *MemStore) AllStocks() ([]*models.Stock, error) {
	var stocks []*models.Stock
	for _, id := range sortedIds(s.stocks) {
		stock := s.stocks[id]
		stocks = append(stocks, &stock)
	}
	return stocks, nil
}

func (s *MemStore) StocksByInfluencer(influencer string) ([]*models.Stock, error) {
	var stocks []*models.Stock
	ids := sortedIds(s.stocks)
	for i := len(ids) - 1; i >= 0; i-- {
		if stock := s.stocks[ids[i]]; stock.Influencer == influencer {
			stockCopy := stock
			stocks = append(stocks, &stockCopy)
		}
	}
	return stocks, nil
}

// --- bids ---

func (s *MemStore) CreateBid(bid *models.Bid) error {
	bid.Id = s.nextId("bids")
	s.bids[bid.Id] = *bid
	return nil
}

func (s *MemStore) SaveBid(bid *models.Bid) error {
	s.bids[bid.Id] = *bid
	return nil
}

func (s *MemStore) BidById(id uint64) (*models.Bid, error) {
	bid, ok := s.bids[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &bid, nil
}

func (s *MemStore) BidsByStock(stockId uint64) ([]*models.Bid, error) {
	var bids []*models.Bid
	ids := sortedIds(s.bids)
	for i := len(ids) - 1; i >= 0; i-- {
		if bid := s.bids[ids[i]]; bid.StockId == stockId {
			bidCopy := bid
			bids = append(bids, &bidCopy)
		}
	}
	return bids, nil
}

func (s *MemStore) BidsByBidder(bidder string, f BidFilter) ([]*models.Bid, error) {
	var bids []*models.Bid
	ids := sortedIds(s.bids)
	for i := len(ids) - 1; i >= 0; i-- {
		bid := s.bids[ids[i]]
		if bid.Bidder != bidder {
			continue
		}
		if f.StockId != nil && bid.StockId != *f.StockId {
			continue
		}
		if f.Open != nil && bid.Open != *f.Open {
			continue
		}
		if f.Active != nil && bid.Active != *f.Active {
			continue
		}
		bidCopy := bid
		bids = append(bids, &bidCopy)
	}
	return bids, nil
}

func (s *MemStore) OpenBidsByStock(stockId uint64) ([]*models.Bid, error) {
	var bids []*models.Bid
	for _, id := range sortedIds(s.bids) {
		if bid := s.bids[id]; bid.StockId == stockId && bid.Open {
			bidCopy := bid
			bids = append(bids, &bidCopy)
		}
	}
	// Stable sort over the id-ascending list keeps insertion order
	// among equal prices.
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].PricePerShare < bids[j].PricePerShare
	})
	return bids, nil
}

// --- buy orders ---

func sortBuyOrders(orders []*models.BuyOrder, sortBy OrderSort) {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		switch sortBy {
		case CreatedAtAsc:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
			return a.Id < b.Id
		case CreatedAtDesc:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt > b.CreatedAt
			}
			return a.Id > b.Id
		case PriceAsc:
			if a.PricePerShare != b.PricePerShare {
				return a.PricePerShare < b.PricePerShare
			}
		case PriceDesc:
			if a.PricePerShare != b.PricePerShare {
				return a.PricePerShare > b.PricePerShare
			}
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.Id < b.Id
	})
}

func sortSellOrders(orders []*models.SellOrder, sortBy OrderSort) {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		switch sortBy {
		case CreatedAtAsc:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
			return a.Id < b.Id
		case CreatedAtDesc:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt > b.CreatedAt
			}
			return a.Id > b.Id
		case PriceAsc:
			if a.PricePerShare != b.PricePerShare {
				return a.PricePerShare < b.PricePerShare
			}
		case PriceDesc:
			if a.PricePerShare != b.PricePerShare {
				return a.PricePerShare > b.PricePerShare
			}
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.Id < b.Id
	})
}

func (s *MemStore) CreateBuyOrder(order *models.BuyOrder) error {
	order.Id = s.nextId("buy_orders")
	s.buyOrders[order.Id] = *order
	return nil
}

func (s *MemStore) SaveBuyOrder(order *models.BuyOrder) error {
	s.buyOrders[order.Id] = *order
	return nil
}

func (s *MemStore) BuyOrderById(id uint64) (*models.BuyOrder, error) {
	order, ok := s.buyOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemStore) OpenBuyOrdersByStock(stockId uint64, sortBy OrderSort) ([]*models.BuyOrder, error) {
	var orders []*models.BuyOrder
	for _, id := range sortedIds(s.buyOrders) {
		if order := s.buyOrders[id]; order.StockId == stockId && !order.IsResolved() {
			orderCopy := order
			orders = append(orders, &orderCopy)
		}
	}
	sortBuyOrders(orders, sortBy)
	return orders, nil
}

func (s *MemStore) OpenBuyOrdersByOwner(owner string, sortBy OrderSort) ([]*models.BuyOrder, error) {
	var orders []*models.BuyOrder
	for _, id := range sortedIds(s.buyOrders) {
		if order := s.buyOrders[id]; order.Owner == owner && !order.IsResolved() {
			orderCopy := order
			orders = append(orders, &orderCopy)
		}
	}
	sortBuyOrders(orders, sortBy)
	return orders, nil
}

// --- sell orders ---

func (s *MemStore) CreateSellOrder(order *models.SellOrder) error {
	order.Id = s.nextId("sell_orders")
	s.sellOrders[order.Id] = *order
	return nil
}

func (s *MemStore) SaveSellOrder(order *models.SellOrder) error {
	s.sellOrders[order.Id] = *order
	return nil
}

func (s *MemStore) SellOrderById(id uint64) (*models.SellOrder, error) {
	order, ok := s.sellOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemStore) OpenSellOrdersByStock(stockId uint64, sortBy OrderSort) ([]*models.SellOrder, error) {
	var orders []*models.SellOrder
	for _, id := range sortedIds(s.sellOrders) {
		if order := s.sellOrders[id]; order.StockId == stockId && !order.IsResolved() {
			orderCopy := order
			orders = append(orders, &orderCopy)
		}
	}
	sortSellOrders(orders, sortBy)
	return orders, nil
}

func (s *MemStore) OpenSellOrdersByOwner(owner string, sortBy OrderSort) ([]*models.SellOrder, error) {
	var orders []*models.SellOrder
	for _, id := range sortedIds(s.sellOrders) {
		if order := s.sellOrders[id]; order.Owner == owner && !order.IsResolved() {
			orderCopy := order
			orders = append(orders, &orderCopy)
		}
	}
	sortSellOrders(orders, sortBy)
	return orders, nil
}

// --- shares ---

func (s *MemStore) CreateShare(share *models.Share) error {
	share.Id = s.nextId("shares")
	s.shares[share.Id] = *share
	return nil
}

func (s *MemStore) SaveShare(share *models.Share) error {
	s.shares[share.Id] = *share
	return nil
}

func (s *MemStore) ShareByStockAndOwner(stockId uint64, owner string) (*models.Share, error) {
	for _, id := range sortedIds(s.shares) {
		if share := s.shares[id]; share.StockId == stockId && share.Owner == owner {
			shareCopy := share
			return &shareCopy, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) SharesByOwner(owner string) ([]*models.Share, error) {
	var shares []*models.Share
	for _, id := range sortedIds(s.shares) {
		if share := s.shares[id]; share.Owner == owner {
			shareCopy := share
			shares = append(shares, &shareCopy)
		}
	}
	return shares, nil
}

func (s *MemStore) SharesByStock(stockId uint64) ([]*models.Share, error) {
	var shares []*models.Share
	for _, id := range sortedIds(s.shares) {
		if share := s.shares[id]; share.StockId == stockId {
			shareCopy := share
			shares = append(shares, &shareCopy)
		}
	}
	return shares, nil
}

// --- sales ---

func (s *MemStore) CreateSale(sale *models.Sale) error {
	sale.Id = s.nextId("sales")
	s.sales[sale.Id] = *sale
	return nil
}

func (s *MemStore) SalesByStock(stockId uint64) ([]*models.Sale, error) {
	var sales []*models.Sale
	ids := sortedIds(s.sales)
	for i := len(ids) - 1; i >= 0; i-- {
		if sale := s.sales[ids[i]]; sale.StockId == stockId {
			saleCopy := sale
			sales = append(sales, &saleCopy)
		}
	}
	return sales, nil
}

func (s *MemStore) SalesByAccount(account string) ([]*models.Sale, error) {
	var sales []*models.Sale
	ids := sortedIds(s.sales)
	for i := len(ids) - 1; i >= 0; i-- {
		if sale := s.sales[ids[i]]; sale.From == account || sale.To == account {
			saleCopy := sale
			sales = append(sales, &saleCopy)
		}
	}
	return sales, nil
}
