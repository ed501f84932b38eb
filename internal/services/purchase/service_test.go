package purchase

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
		&models.Product{},
		&models.PurchaseOrder{},
		&models.OrderItem{},
		&models.Document{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(db, log), db
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func seedOrder(t *testing.T, svc *Service, number string) *models.PurchaseOrder {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		SupplierID:  "supplier-1",
		OrderNumber: number,
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: dec(50)},
			{ProductID: 2, Quantity: 1, UnitPrice: dec(30)},
		},
		Documents: []DocumentInput{
			{Type: models.DocumentTypeInvoice, Title: "invoice.pdf", URL: "https://files/invoice.pdf"},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderInput{OrderNumber: "PO-1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		OrderNumber: "PO-1",
		Items:       []OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		OrderNumber: "PO-1",
		Items:       []OrderItemInput{{ProductID: 1, Quantity: 0, UnitPrice: dec(10)}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	order := seedOrder(t, svc, "PO-100")

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.IsZero())
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, order.ID, item.OrderID)
	}
	require.Len(t, order.Documents, 1)

	// TotalPrice defaults to quantity times unit price.
	var first models.OrderItem
	for _, item := range order.Items {
		if item.ProductID == 1 {
			first = item
		}
	}
	assert.True(t, first.TotalPrice.Equal(decimal.NewFromInt(100)))
}

func TestUpdateOrderReconcilesItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "PO-200")

	var keptID string
	for _, item := range order.Items {
		if item.ProductID == 1 {
			keptID = item.ID
		}
	}

	status := models.OrderStatusApproved
	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		Status: &status,
		Items: &[]OrderItemInput{
			{ID: keptID, ProductID: 1, Quantity: 5, UnitPrice: dec(45)},
			{ProductID: 3, Quantity: 7, UnitPrice: dec(20)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusApproved, updated.Status)
	require.Len(t, updated.Items, 2)

	byProduct := map[int64]models.OrderItem{}
	for _, item := range updated.Items {
		byProduct[item.ProductID] = item
	}

	kept, ok := byProduct[1]
	require.True(t, ok)
	assert.Equal(t, keptID, kept.ID)
	assert.Equal(t, 5, kept.Quantity)
	assert.True(t, kept.UnitPrice.Equal(decimal.NewFromInt(45)))
	assert.True(t, kept.TotalPrice.Equal(decimal.NewFromInt(225)))

	added, ok := byProduct[3]
	require.True(t, ok)
	assert.NotEmpty(t, added.ID)

	// The item for product 2 was not in the submitted list, so it is gone.
	_, stillThere := byProduct[2]
	assert.False(t, stillThere)

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpdateOrderUnknownItemIDCreates(t *testing.T) {
	svc, _ := newTestService(t)
	order := seedOrder(t, svc, "PO-250")

	updated, err := svc.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Items: &[]OrderItemInput{
			{ID: "never-seen-before", ProductID: 9, Quantity: 1, UnitPrice: dec(10)},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(9), updated.Items[0].ProductID)
	assert.NotEqual(t, "never-seen-before", updated.Items[0].ID)
}

func TestUpdateOrderOmittedCollectionsUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	order := seedOrder(t, svc, "PO-300")

	notes := "header only"
	updated, err := svc.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Notes: &notes,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Notes)
	assert.Equal(t, "header only", *updated.Notes)
	assert.Len(t, updated.Items, 2)
	assert.Len(t, updated.Documents, 1)
}

func TestUpdateOrderEmptyListDeletesAll(t *testing.T) {
	svc, _ := newTestService(t)
	order := seedOrder(t, svc, "PO-400")

	updated, err := svc.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Items:     &[]OrderItemInput{},
		Documents: &[]DocumentInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Empty(t, updated.Documents)
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateOrder(context.Background(), "missing", UpdateOrderInput{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderCascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "PO-500")

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err := svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	var items, docs int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	require.NoError(t, db.Model(&models.Document{}).Where("order_id = ?", order.ID).Count(&docs).Error)
	assert.Zero(t, items)
	assert.Zero(t, docs)
}

func TestDeleteOrderNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), "missing"), ErrOrderNotFound)
}

func TestAddAndUpdateDocument(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, svc, "PO-600")

	doc, err := svc.AddDocument(ctx, order.ID, DocumentInput{
		Type:  models.DocumentTypeReceipt,
		Title: "receipt.pdf",
		URL:   "https://files/receipt.pdf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, order.ID, doc.OrderID)

	updated, err := svc.UpdateDocument(ctx, doc.ID, DocumentInput{
		Type:  models.DocumentTypeReceipt,
		Title: "receipt-v2.pdf",
		URL:   "https://files/receipt-v2.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "receipt-v2.pdf", updated.Title)

	_, err = svc.AddDocument(ctx, "missing", DocumentInput{Title: "x"})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.UpdateDocument(ctx, "missing", DocumentInput{Title: "x"})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
