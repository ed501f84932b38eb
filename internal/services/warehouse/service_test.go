package warehouse

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"comercio-backend/internal/database/models"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Warehouse{},
		&models.WarehouseItem{},
		&models.StockMovement{},
		&models.Product{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(db, nil, log), db
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string) *models.Warehouse {
	t.Helper()
	w := &models.Warehouse{Name: name, Location: "central", Status: models.WarehouseStatusActive}
	require.NoError(t, db.Create(w).Error)
	return w
}

func TestCalculateStockStatus(t *testing.T) {
	cases := []struct {
		name         string
		quantity     int
		minimumStock int
		want         models.StockStatus
	}{
		{"zero is out of stock", 0, 0, models.StockStatusOutOfStock},
		{"zero with minimum is out of stock", 0, 10, models.StockStatusOutOfStock},
		{"at minimum is low", 5, 5, models.StockStatusLowStock},
		{"below minimum is low", 3, 5, models.StockStatusLowStock},
		{"above minimum is in stock", 6, 5, models.StockStatusInStock},
		{"positive with zero minimum is in stock", 1, 0, models.StockStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateStockStatus(tc.quantity, tc.minimumStock))
		})
	}
}

func TestAddStockCreatesItemAndMovement(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	item, err := svc.AddStock(ctx, w.ID, 42, 10, "A-1", decimal.NewFromInt(100), decimal.NewFromInt(60), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, models.StockStatusInStock, item.Status)
	assert.Equal(t, "A-1", item.Location)

	var movements []models.StockMovement
	require.NoError(t, db.Where("item_id = ?", item.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementTypeIn, movements[0].Type)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, "user-1", movements[0].UserID)
}

func TestAddStockIncrementsExistingItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	_, err := svc.AddStock(ctx, w.ID, 42, 10, "A-1", decimal.NewFromInt(100), decimal.NewFromInt(60), "user-1")
	require.NoError(t, err)
	item, err := svc.AddStock(ctx, w.ID, 42, 5, "A-1", decimal.NewFromInt(110), decimal.NewFromInt(65), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 15, item.Quantity)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(110)))
	assert.True(t, item.Cost.Equal(decimal.NewFromInt(65)))

	var count int64
	require.NoError(t, db.Model(&models.WarehouseItem{}).
		Where("warehouse_id = ? AND product_id = ?", w.ID, 42).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var movements int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("item_id = ?", item.ID).Count(&movements).Error)
	assert.Equal(t, int64(2), movements)
}

func TestRemoveStockRejectsUnderflow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	seeded, err := svc.AddStock(ctx, w.ID, 42, 5, "A-1", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, w.ID, 42, 6, "user-1")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var item models.WarehouseItem
	require.NoError(t, db.First(&item, "id = ?", seeded.ID).Error)
	assert.Equal(t, 5, item.Quantity)

	var outMovements int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("item_id = ? AND type = ?", seeded.ID, models.MovementTypeOut).
		Count(&outMovements).Error)
	assert.Zero(t, outMovements)
}

func TestRemoveStockToZeroIsOutOfStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	_, err := svc.AddStock(ctx, w.ID, 42, 5, "A-1", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)

	item, err := svc.RemoveStock(ctx, w.ID, 42, 5, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, models.StockStatusOutOfStock, item.Status)
}

func TestRemoveStockUnknownItem(t *testing.T) {
	svc, db := newTestService(t)
	w := seedWarehouse(t, db, "Main")

	_, err := svc.RemoveStock(context.Background(), w.ID, 99, 1, "user-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStockStatusRespectsMinimum(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	seeded, err := svc.AddStock(ctx, w.ID, 42, 10, "A-1", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.WarehouseItem{}).
		Where("id = ?", seeded.ID).Update("minimum_stock", 5).Error)

	item, err := svc.RemoveStock(ctx, w.ID, 42, 5, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StockStatusLowStock, item.Status)
}

func TestTransferStockMovesQuantity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	source := seedWarehouse(t, db, "Source")
	target := seedWarehouse(t, db, "Target")

	_, err := svc.AddStock(ctx, source.ID, 42, 10, "B-2", decimal.NewFromInt(100), decimal.NewFromInt(60), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.TransferStock(ctx, source.ID, target.ID, 42, 4, "user-1"))

	var sourceItem, targetItem models.WarehouseItem
	require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", source.ID, 42).First(&sourceItem).Error)
	require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", target.ID, 42).First(&targetItem).Error)

	assert.Equal(t, 6, sourceItem.Quantity)
	assert.Equal(t, 4, targetItem.Quantity)
	assert.Equal(t, 10, sourceItem.Quantity+targetItem.Quantity)

	// Location, price and cost carry over from the source item.
	assert.Equal(t, "B-2", targetItem.Location)
	assert.True(t, targetItem.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, targetItem.Cost.Equal(decimal.NewFromInt(60)))

	var outCount, inCount int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("item_id = ? AND type = ?", sourceItem.ID, models.MovementTypeOut).Count(&outCount).Error)
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("item_id = ? AND type = ?", targetItem.ID, models.MovementTypeIn).Count(&inCount).Error)
	assert.Equal(t, int64(1), outCount)
	assert.Equal(t, int64(1), inCount)
}

func TestTransferStockInsufficientRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	source := seedWarehouse(t, db, "Source")
	target := seedWarehouse(t, db, "Target")

	_, err := svc.AddStock(ctx, source.ID, 42, 3, "B-2", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)

	err = svc.TransferStock(ctx, source.ID, target.ID, 42, 5, "user-1")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var sourceItem models.WarehouseItem
	require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", source.ID, 42).First(&sourceItem).Error)
	assert.Equal(t, 3, sourceItem.Quantity)

	var targetCount int64
	require.NoError(t, db.Model(&models.WarehouseItem{}).
		Where("warehouse_id = ?", target.ID).Count(&targetCount).Error)
	assert.Zero(t, targetCount)
}

func TestTransferStockSameWarehouse(t *testing.T) {
	svc, db := newTestService(t)
	w := seedWarehouse(t, db, "Main")

	err := svc.TransferStock(context.Background(), w.ID, w.ID, 42, 1, "user-1")
	assert.ErrorIs(t, err, ErrSameWarehouse)
}

func TestTransferStockUnknownSource(t *testing.T) {
	svc, db := newTestService(t)
	source := seedWarehouse(t, db, "Source")
	target := seedWarehouse(t, db, "Target")

	err := svc.TransferStock(context.Background(), source.ID, target.ID, 42, 1, "user-1")
	assert.ErrorIs(t, err, ErrSourceItemNotFound)
}

func TestInvalidQuantities(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	_, err := svc.AddStock(ctx, w.ID, 42, 0, "", decimal.Zero, decimal.Zero, "user-1")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.RemoveStock(ctx, w.ID, 42, -1, "user-1")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	err = svc.TransferStock(ctx, w.ID, "other", 42, 0, "user-1")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestListWarehousesComputesOccupancy(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	_, err := svc.AddStock(ctx, w.ID, 1, 10, "", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, w.ID, 2, 7, "", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)

	warehouses, err := svc.ListWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, warehouses, 1)
	assert.Equal(t, 17, warehouses[0].CurrentOccupancy)
}

func TestDeleteWarehouseRemovesItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w := seedWarehouse(t, db, "Main")

	_, err := svc.AddStock(ctx, w.ID, 42, 10, "", decimal.Zero, decimal.Zero, "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWarehouse(ctx, w.ID))

	var itemCount int64
	require.NoError(t, db.Model(&models.WarehouseItem{}).
		Where("warehouse_id = ?", w.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	_, err = svc.GetWarehouse(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestUpdatePriceAndCostTouchesAllItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	w1 := seedWarehouse(t, db, "One")
	w2 := seedWarehouse(t, db, "Two")

	_, err := svc.AddStock(ctx, w1.ID, 42, 1, "", decimal.NewFromInt(10), decimal.NewFromInt(5), "user-1")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, w2.ID, 42, 1, "", decimal.NewFromInt(10), decimal.NewFromInt(5), "user-1")
	require.NoError(t, err)

	touched, err := svc.UpdatePriceAndCost(ctx, 42, decimal.NewFromInt(20), decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, int64(2), touched)

	var items []models.WarehouseItem
	require.NoError(t, db.Where("product_id = ?", 42).Find(&items).Error)
	for _, item := range items {
		assert.True(t, item.Price.Equal(decimal.NewFromInt(20)))
		assert.True(t, item.Cost.Equal(decimal.NewFromInt(12)))
	}
}
