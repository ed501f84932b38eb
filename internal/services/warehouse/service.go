package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

const (
	WAREHOUSE_CACHE_KEY = "warehouses:list"
	CACHE_TTL_SHORT     = 5 * time.Minute
)

var (
	ErrWarehouseNotFound  = errors.New("warehouse not found")
	ErrItemNotFound       = errors.New("item not found in warehouse")
	ErrSourceItemNotFound = errors.New("source item not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSameWarehouse      = errors.New("cannot transfer to the same warehouse")
	ErrInvalidQuantity    = errors.New("quantity must be greater than 0")
)

type Service struct {
	db    *gorm.DB
	redis *redis.Client
	log   *logrus.Logger
}

func NewService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *Service {
	return &Service{
		db:    db,
		redis: redisClient,
		log:   log,
	}
}

// CalculateStockStatus derives the stock status from quantity vs minimum stock.
// It is a pure function: quantity 0 is OUT_OF_STOCK, anything at or below the
// minimum is LOW_STOCK, everything else is IN_STOCK.
func CalculateStockStatus(quantity, minimumStock int) models.StockStatus {
	if quantity == 0 {
		return models.StockStatusOutOfStock
	}
	if quantity <= minimumStock {
		return models.StockStatusLowStock
	}
	return models.StockStatusInStock
}

func (s *Service) invalidateWarehouseCache(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, WAREHOUSE_CACHE_KEY)
	}
}

// --- Stock Ledger ---

// AddStock credits quantity to the (warehouse, product) item, creating the item
// on first stock-in, and appends one IN movement attributed to userID.
func (s *Service) AddStock(ctx context.Context, warehouseID string, productID int64, quantity int, location string, price, cost decimal.Decimal, userID string) (*models.WarehouseItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item *models.WarehouseItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.addStockTx(tx, warehouseID, productID, quantity, location, price, cost, userID)
		return txErr
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"op":          "addStock",
			"warehouseId": warehouseID,
			"productId":   productID,
		}).Error(err)
		return nil, err
	}
	return item, nil
}

// RemoveStock debits quantity from the (warehouse, product) item and appends
// one OUT movement. This is the only place stock underflow is prevented.
func (s *Service) RemoveStock(ctx context.Context, warehouseID string, productID int64, quantity int, userID string) (*models.WarehouseItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item *models.WarehouseItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.removeStockTx(tx, warehouseID, productID, quantity, userID)
		return txErr
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"op":          "removeStock",
			"warehouseId": warehouseID,
			"productId":   productID,
		}).Error(err)
		return nil, err
	}
	return item, nil
}

// TransferStock moves quantity between two warehouses as one transaction: the
// debit and credit either both commit or neither does. Location, price and
// cost carry over from the source item. Same-warehouse transfers are rejected.
func (s *Service) TransferStock(ctx context.Context, sourceWarehouseID, targetWarehouseID string, productID int64, quantity int, userID string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if sourceWarehouseID == targetWarehouseID {
		return ErrSameWarehouse
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source models.WarehouseItem
		if err := tx.Where("warehouse_id = ? AND product_id = ?", sourceWarehouseID, productID).
			First(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSourceItemNotFound
			}
			return err
		}

		if _, err := s.removeStockTx(tx, sourceWarehouseID, productID, quantity, userID); err != nil {
			return err
		}
		if _, err := s.addStockTx(tx, targetWarehouseID, productID, quantity, source.Location, source.Price, source.Cost, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"op":                "transferStock",
			"sourceWarehouseId": sourceWarehouseID,
			"targetWarehouseId": targetWarehouseID,
			"productId":         productID,
		}).Error(err)
	}
	return err
}

func (s *Service) addStockTx(tx *gorm.DB, warehouseID string, productID int64, quantity int, location string, price, cost decimal.Decimal, userID string) (*models.WarehouseItem, error) {
	var item models.WarehouseItem
	err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&item).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.WarehouseItem{
			WarehouseID:  warehouseID,
			ProductID:    productID,
			Quantity:     quantity,
			MinimumStock: 0,
			Location:     location,
			Price:        price,
			Cost:         cost,
			Status:       CalculateStockStatus(quantity, 0),
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		// Atomic increment so two concurrent credits never lose an update.
		res := tx.Model(&models.WarehouseItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
			"price":    price,
			"cost":     cost,
		})
		if res.Error != nil {
			return nil, res.Error
		}
		if err := tx.First(&item, "id = ?", item.ID).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&item).Update("status", CalculateStockStatus(item.Quantity, item.MinimumStock)).Error; err != nil {
			return nil, err
		}
	}

	movement := models.StockMovement{
		ItemID:   item.ID,
		Type:     models.MovementTypeIn,
		Quantity: quantity,
		UserID:   userID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Service) removeStockTx(tx *gorm.DB, warehouseID string, productID int64, quantity int, userID string) (*models.WarehouseItem, error) {
	var item models.WarehouseItem
	if err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// Conditional decrement: the WHERE guard rejects underflow without a
	// read-then-write race, RowsAffected tells us whether it applied.
	res := tx.Model(&models.WarehouseItem{}).
		Where("id = ? AND quantity >= ?", item.ID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInsufficientStock
	}

	if err := tx.First(&item, "id = ?", item.ID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&item).Update("status", CalculateStockStatus(item.Quantity, item.MinimumStock)).Error; err != nil {
		return nil, err
	}

	movement := models.StockMovement{
		ItemID:   item.ID,
		Type:     models.MovementTypeOut,
		Quantity: quantity,
		UserID:   userID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

// --- Warehouses ---

func (s *Service) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, WAREHOUSE_CACHE_KEY).Result(); err == nil {
			var warehouses []models.Warehouse
			if json.Unmarshal([]byte(cached), &warehouses) == nil {
				return warehouses, nil
			}
		}
	}

	var warehouses []models.Warehouse
	if err := s.db.WithContext(ctx).Preload("Items").Find(&warehouses).Error; err != nil {
		s.log.WithField("op", "listWarehouses").Error(err)
		return nil, err
	}

	for i := range warehouses {
		occupancy := 0
		for _, item := range warehouses[i].Items {
			occupancy += item.Quantity
		}
		warehouses[i].CurrentOccupancy = occupancy
	}

	if s.redis != nil {
		if payload, err := json.Marshal(warehouses); err == nil {
			_ = s.redis.Set(ctx, WAREHOUSE_CACHE_KEY, payload, CACHE_TTL_SHORT)
		}
	}

	return warehouses, nil
}

func (s *Service) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Items.Movements").
		First(&warehouse, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		s.log.WithFields(logrus.Fields{"op": "getWarehouse", "warehouseId": id}).Error(err)
		return nil, err
	}
	return &warehouse, nil
}

func (s *Service) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse.Status == "" {
		warehouse.Status = models.WarehouseStatusActive
	}
	if err := s.db.WithContext(ctx).Create(warehouse).Error; err != nil {
		s.log.WithField("op", "createWarehouse").Error(err)
		return err
	}
	s.invalidateWarehouseCache(ctx)
	return nil
}

func (s *Service) UpdateWarehouse(ctx context.Context, id string, updates *models.Warehouse) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := s.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}

	// Items are managed by the stock ledger, never through a header update.
	updates.ID = ""
	updates.Items = nil
	if err := s.db.WithContext(ctx).Model(&warehouse).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateWarehouse", "warehouseId": id}).Error(err)
		return nil, err
	}

	s.invalidateWarehouseCache(ctx)
	return s.GetWarehouse(ctx, id)
}

func (s *Service) DeleteWarehouse(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var warehouse models.Warehouse
		if err := tx.First(&warehouse, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWarehouseNotFound
			}
			return err
		}
		if err := tx.Where("warehouse_id = ?", id).Delete(&models.WarehouseItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&warehouse).Error
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteWarehouse", "warehouseId": id}).Error(err)
		return err
	}
	s.invalidateWarehouseCache(ctx)
	return nil
}

// --- Warehouse items ---

func (s *Service) GetItemsByProduct(ctx context.Context, productID int64) ([]models.WarehouseItem, error) {
	var items []models.WarehouseItem
	err := s.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Product").
		Where("product_id = ?", productID).
		Find(&items).Error
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "getItemsByProduct", "productId": productID}).Error(err)
		return nil, err
	}
	return items, nil
}

// UpdatePriceAndCost overwrites price and cost on every warehouse item of one
// product. Returns the number of rows touched.
func (s *Service) UpdatePriceAndCost(ctx context.Context, productID int64, price, cost decimal.Decimal) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.WarehouseItem{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{"price": price, "cost": cost})
	if res.Error != nil {
		s.log.WithFields(logrus.Fields{"op": "updatePriceAndCost", "productId": productID}).Error(res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *Service) ListMovements(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&movements).Error
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "listMovements", "itemId": itemID}).Error(err)
		return nil, err
	}
	return movements, nil
}
