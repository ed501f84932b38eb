package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrValidation       = errors.New("invalid order payload")
)

type Service struct {
	db       *gorm.DB
	log      *logrus.Logger
	validate *validator.Validate
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		log:      log,
		validate: validator.New(),
	}
}

// OrderItemInput is one line item of a submitted order. An empty ID means the
// row is new; a non-empty ID targets an existing row of the same order.
type OrderItemInput struct {
	ID           string           `json:"id"`
	ProductID    int64            `json:"productId" validate:"required"`
	Quantity     int              `json:"quantity" validate:"gt=0"`
	UnitPrice    *decimal.Decimal `json:"unitPrice" validate:"required"`
	TotalPrice   *decimal.Decimal `json:"totalPrice"`
	QtyDone      int              `json:"qtyDone"`
	IsGift       bool             `json:"isGift"`
	IsBestSeller bool             `json:"isBestSeller"`
	IsNew        bool             `json:"isNew"`
	Status       string           `json:"status"`
}

type DocumentInput struct {
	ID         string              `json:"id"`
	Type       models.DocumentType `json:"type"`
	Title      string              `json:"title"`
	URL        string              `json:"url"`
	UploadedAt *time.Time          `json:"uploadedAt"`
	Status     string              `json:"status"`
	Hash       string              `json:"hash"`
	MimeType   string              `json:"mimeType"`
	Size       int64               `json:"size"`
}

type CreateOrderInput struct {
	SupplierID  string             `json:"supplierId"`
	OrderNumber string             `json:"orderNumber" validate:"required"`
	Status      models.OrderStatus `json:"status"`
	OrderDate   *time.Time         `json:"orderDate"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Discount    decimal.Decimal    `json:"discount"`
	Notes       *string            `json:"notes"`
	Items       []OrderItemInput   `json:"items" validate:"required,min=1,dive"`
	Documents   []DocumentInput    `json:"documents"`
}

// UpdateOrderInput is a patch: nil header fields are left alone, and a nil
// Items/Documents slice leaves the corresponding child collection untouched.
// A non-nil slice is the authoritative desired state for that collection.
type UpdateOrderInput struct {
	SupplierID  *string             `json:"supplierId"`
	OrderNumber *string             `json:"orderNumber"`
	Status      *models.OrderStatus `json:"status"`
	OrderDate   *time.Time          `json:"orderDate"`
	TotalAmount *decimal.Decimal    `json:"totalAmount"`
	Discount    *decimal.Decimal    `json:"discount"`
	Notes       *string             `json:"notes"`
	Items       *[]OrderItemInput   `json:"items"`
	Documents   *[]DocumentInput    `json:"documents"`
}

func (in OrderItemInput) totalPrice() decimal.Decimal {
	if in.TotalPrice != nil {
		return *in.TotalPrice
	}
	return in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
}

func (s *Service) ListOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Documents").
		Find(&orders).Error
	if err != nil {
		s.log.WithField("op", "listOrders").Error(err)
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Documents").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		s.log.WithFields(logrus.Fields{"op": "getOrder", "orderId": id}).Error(err)
		return nil, err
	}
	return &order, nil
}

func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.PurchaseOrder, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	status := in.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	order := models.PurchaseOrder{
		SupplierID:  in.SupplierID,
		OrderNumber: in.OrderNumber,
		Status:      status,
		OrderDate:   orderDate,
		TotalAmount: in.TotalAmount,
		Discount:    in.Discount,
		Notes:       in.Notes,
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    *item.UnitPrice,
			TotalPrice:   item.totalPrice(),
			QtyDone:      item.QtyDone,
			IsGift:       item.IsGift,
			IsBestSeller: item.IsBestSeller,
			IsNew:        item.IsNew,
			Status:       item.Status,
		})
	}
	for _, doc := range in.Documents {
		order.Documents = append(order.Documents, documentFromInput(doc, ""))
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		s.log.WithField("op", "createOrder").Error(err)
		return nil, err
	}

	return s.GetOrder(ctx, order.ID)
}

// UpdateOrder converges the persisted order to the submitted state: the header
// patch, every item/document upsert and the deletion of rows missing from the
// submitted lists run in one transaction, so a failure anywhere leaves the
// order exactly as it was.
func (s *Service) UpdateOrder(ctx context.Context, id string, in UpdateOrderInput) (*models.PurchaseOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.PurchaseOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if headers := headerUpdates(in); len(headers) > 0 {
			if err := tx.Model(&order).Updates(headers).Error; err != nil {
				return err
			}
		}

		if in.Items != nil {
			if err := reconcileItems(tx, id, *in.Items); err != nil {
				return err
			}
		}
		if in.Documents != nil {
			if err := reconcileDocuments(tx, id, *in.Documents); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateOrder", "orderId": id}).Error(err)
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

func headerUpdates(in UpdateOrderInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if in.SupplierID != nil {
		updates["supplier_id"] = *in.SupplierID
	}
	if in.OrderNumber != nil {
		updates["order_number"] = *in.OrderNumber
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.OrderDate != nil {
		updates["order_date"] = *in.OrderDate
	}
	if in.TotalAmount != nil {
		updates["total_amount"] = *in.TotalAmount
	}
	if in.Discount != nil {
		updates["discount"] = *in.Discount
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	return updates
}

func reconcileItems(tx *gorm.DB, orderID string, items []OrderItemInput) error {
	keep := make([]string, 0, len(items))

	for _, item := range items {
		if item.UnitPrice == nil {
			return fmt.Errorf("%w: item unitPrice is required", ErrValidation)
		}
		values := map[string]interface{}{
			"product_id":     item.ProductID,
			"quantity":       item.Quantity,
			"unit_price":     *item.UnitPrice,
			"total_price":    item.totalPrice(),
			"qty_done":       item.QtyDone,
			"is_gift":        item.IsGift,
			"is_best_seller": item.IsBestSeller,
			"is_new":         item.IsNew,
			"status":         item.Status,
		}

		if item.ID != "" {
			res := tx.Model(&models.OrderItem{}).
				Where("id = ? AND order_id = ?", item.ID, orderID).
				Updates(values)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				keep = append(keep, item.ID)
				continue
			}
			// Unknown id: fall through and create, upsert semantics.
		}

		newItem := models.OrderItem{
			OrderID:      orderID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    *item.UnitPrice,
			TotalPrice:   item.totalPrice(),
			QtyDone:      item.QtyDone,
			IsGift:       item.IsGift,
			IsBestSeller: item.IsBestSeller,
			IsNew:        item.IsNew,
			Status:       item.Status,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}
		keep = append(keep, newItem.ID)
	}

	query := tx.Where("order_id = ?", orderID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&models.OrderItem{}).Error
}

func reconcileDocuments(tx *gorm.DB, orderID string, docs []DocumentInput) error {
	keep := make([]string, 0, len(docs))

	for _, doc := range docs {
		uploadedAt := time.Now()
		if doc.UploadedAt != nil {
			uploadedAt = *doc.UploadedAt
		}
		values := map[string]interface{}{
			"type":        doc.Type,
			"title":       doc.Title,
			"url":         doc.URL,
			"uploaded_at": uploadedAt,
			"status":      doc.Status,
			"hash":        doc.Hash,
			"mime_type":   doc.MimeType,
			"size":        doc.Size,
		}

		if doc.ID != "" {
			res := tx.Model(&models.Document{}).
				Where("id = ? AND order_id = ?", doc.ID, orderID).
				Updates(values)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				keep = append(keep, doc.ID)
				continue
			}
		}

		newDoc := documentFromInput(doc, orderID)
		if err := tx.Create(&newDoc).Error; err != nil {
			return err
		}
		keep = append(keep, newDoc.ID)
	}

	query := tx.Where("order_id = ?", orderID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&models.Document{}).Error
}

func documentFromInput(doc DocumentInput, orderID string) models.Document {
	uploadedAt := time.Now()
	if doc.UploadedAt != nil {
		uploadedAt = *doc.UploadedAt
	}
	docType := doc.Type
	if docType == "" {
		docType = models.DocumentTypeOther
	}
	return models.Document{
		OrderID:    orderID,
		Type:       docType,
		Title:      doc.Title,
		URL:        doc.URL,
		UploadedAt: uploadedAt,
		Status:     doc.Status,
		Hash:       doc.Hash,
		MimeType:   doc.MimeType,
		Size:       doc.Size,
	}
}

// DeleteOrder removes the order and its children in one transaction, children
// first to satisfy referential constraints.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.PurchaseOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteOrder", "orderId": id}).Error(err)
	}
	return err
}

func (s *Service) AddDocument(ctx context.Context, orderID string, in DocumentInput) (*models.Document, error) {
	var order models.PurchaseOrder
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	doc := documentFromInput(in, orderID)
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "addDocument", "orderId": orderID}).Error(err)
		return nil, err
	}
	return &doc, nil
}

func (s *Service) UpdateDocument(ctx context.Context, documentID string, in DocumentInput) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"title":     in.Title,
		"url":       in.URL,
		"status":    in.Status,
		"hash":      in.Hash,
		"mime_type": in.MimeType,
		"size":      in.Size,
	}
	if in.Type != "" {
		updates["type"] = in.Type
	}
	if in.UploadedAt != nil {
		updates["uploaded_at"] = *in.UploadedAt
	}
	if err := s.db.WithContext(ctx).Model(&doc).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateDocument", "documentId": documentID}).Error(err)
		return nil, err
	}
	return &doc, nil
}
