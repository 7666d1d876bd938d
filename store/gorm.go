package store

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/utils"
)

// GormStore implements Store on top of a MySQL database. Secondary
// indexes come from the schema tags on the models; ordered listings are
// plain indexed ORDER BY scans.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database named in the configuration and returns
// a store backed by it.
func Open(conf *utils.Config) (*GormStore, error) {
	connstr := fmt.Sprintf("%s:%s@%s/%s?charset=utf8&parseTime=true",
		conf.DbUser, conf.DbPassword, conf.DbHost, conf.DbName)

	db, err := gorm.Open("mysql", connstr)
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// AutoMigrate creates or updates the six collection tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Stock{},
		&models.Bid{},
		&models.BuyOrder{},
		&models.SellOrder{},
		&models.Share{},
		&models.Sale{},
	).Error
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	return s.db.Close()
}

// Transact wraps fn in one database transaction. Any error from fn
// rolls back every write made inside it.
func (s *GormStore) Transact(fn func(Store) error) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := fn(&GormStore{db: tx}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func notFoundOr(err error) error {
	if gorm.IsRecordNotFoundError(err) {
		return ErrNotFound
	}
	return err
}

// --- stocks ---

func (s *GormStore) CreateStock(stock *models.Stock) error {
	return s.db.Create(stock).Error
}

func (s *GormStore) SaveStock(stock *models.Stock) error {
	return s.db.Save(stock).Error
}

func (s *GormStore) StockById(id uint64) (*models.Stock, error) {
	stock := &models.Stock{}
	if err := s.db.First(stock, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return stock, nil
}

func (s *GormStore) AllStocks() ([]*models.Stock, error) {
	var stocks []*models.Stock
	if err := s.db.Order("id asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (s *GormStore) StocksByInfluencer(influencer string) ([]*models.Stock, error) {
	var stocks []*models.Stock
	if err := s.db.Where("influencer = ?", influencer).Order("id desc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// --- bids ---

func (s *GormStore) CreateBid(bid *models.Bid) error {
	return s.db.Create(bid).Error
}

func (s *GormStore) SaveBid(bid *models.Bid) error {
	return s.db.Save(bid).Error
}

func (s *GormStore) BidById(id uint64) (*models.Bid, error) {
	bid := &models.Bid{}
	if err := s.db.First(bid, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return bid, nil
}

func (s *GormStore) BidsByStock(stockId uint64) ([]*models.Bid, error) {
	var bids []*models.Bid
	if err := s.db.Where("stockId = ?", stockId).Order("id desc").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *GormStore) BidsByBidder(bidder string, f BidFilter) ([]*models.Bid, error) {
	q := s.db.Where("bidder = ?", bidder)
	if f.StockId != nil {
		q = q.Where("stockId = ?", *f.StockId)
	}
	if f.Open != nil {
		q = q.Where("open = ?", *f.Open)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var bids []*models.Bid
	if err := q.Order("id desc").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *GormStore) OpenBidsByStock(stockId uint64) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := s.db.Where("stockId = ? AND open = ?", stockId, true).
		Order("pricePerShare asc, id asc").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// --- buy orders ---

func orderClause(sort OrderSort) string {
	switch sort {
	case CreatedAtAsc:
		return "createdAt asc, id asc"
	case CreatedAtDesc:
		return "createdAt desc, id desc"
	case PriceAsc:
		return "pricePerShare asc, createdAt asc, id asc"
	case PriceDesc:
		return "pricePerShare desc, createdAt asc, id asc"
	}
	return "id asc"
}

func (s *GormStore) CreateBuyOrder(order *models.BuyOrder) error {
	return s.db.Create(order).Error
}

func (s *GormStore) SaveBuyOrder(order *models.BuyOrder) error {
	return s.db.Save(order).Error
}

func (s *GormStore) BuyOrderById(id uint64) (*models.BuyOrder, error) {
	order := &models.BuyOrder{}
	if err := s.db.First(order, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return order, nil
}

func (s *GormStore) OpenBuyOrdersByStock(stockId uint64, sort OrderSort) ([]*models.BuyOrder, error) {
	var orders []*models.BuyOrder
	err := s.db.Where("stockId = ? AND resolvedAt = 0", stockId).
		Order(orderClause(sort)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) OpenBuyOrdersByOwner(owner string, sort OrderSort) ([]*models.BuyOrder, error) {
	var orders []*models.BuyOrder
	err := s.db.Where("owner = ? AND resolvedAt = 0", owner).
		Order(orderClause(sort)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- sell orders ---

func (s *GormStore) CreateSellOrder(order *models.SellOrder) error {
	return s.db.Create(order).Error
}

func (s *GormStore) SaveSellOrder(order *models.SellOrder) error {
	return s.db.Save(order).Error
}

func (s *GormStore) SellOrderById(id uint64) (*models.SellOrder, error) {
	order := &models.SellOrder{}
	if err := s.db.First(order, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return order, nil
}

func (s *GormStore) OpenSellOrdersByStock(stockId uint64, sort OrderSort) ([]*models.SellOrder, error) {
	var orders []*models.SellOrder
	err := s.db.Where("stockId = ? AND resolvedAt = 0", stockId).
		Order(orderClause(sort)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) OpenSellOrdersByOwner(owner string, sort OrderSort) ([]*models.SellOrder, error) {
	var orders []*models.SellOrder
	err := s.db.Where("owner = ? AND resolvedAt = 0", owner).
		Order(orderClause(sort)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- shares ---

func (s *GormStore) CreateShare(share *models.Share) error {
	return s.db.Create(share).Error
}

func (s *GormStore) SaveShare(share *models.Share) error {
	return s.db.Save(share).Error
}

func (s *GormStore) ShareByStockAndOwner(stockId uint64, owner string) (*models.Share, error) {
	share := &models.Share{}
	err := s.db.Where("stockId = ? AND owner = ?", stockId, owner).First(share).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return share, nil
}

func (s *GormStore) SharesByOwner(owner string) ([]*models.Share, error) {
	var shares []*models.Share
	if err := s.db.Where("owner = ?", owner).Order("id asc").Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

func (s *GormStore) SharesByStock(stockId uint64) ([]*models.Share, error) {
	var shares []*models.Share
	if err := s.db.Where("stockId = ?", stockId).Order("id asc").Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// --- sales ---

func (s *GormStore) CreateSale(sale *models.Sale) error {
	return s.db.Create(sale).Error
}

func (s *GormStore) SalesByStock(stockId uint64) ([]*models.Sale, error) {
	var sales []*models.Sale
	if err := s.db.Where("stockId = ?", stockId).Order("id desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *GormStore) SalesByAccount(account string) ([]*models.Sale, error) {
	var sales []*models.Sale
	err := s.db.Where("fromAccount = ? OR toAccount = ?", account, account).
		Order("id desc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
