package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "INVOICE"
	DocumentTypeReceipt DocumentType = "RECEIPT"
	DocumentTypeVoucher DocumentType = "VOUCHER"
	DocumentTypeOther   DocumentType = "OTHER"
)

type PurchaseOrder struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	SupplierID  string          `gorm:"size:100" json:"supplierId"`
	OrderNumber string          `gorm:"size:100;uniqueIndex" json:"orderNumber"`
	Status      OrderStatus     `gorm:"size:20;default:PENDING" json:"status"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"totalAmount"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"discount"`
	Notes       *string         `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Documents []Document  `gorm:"foreignKey:OrderID" json:"documents"`
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID      string          `gorm:"size:36;not null;index" json:"orderId"`
	ProductID    int64           `gorm:"not null" json:"productId"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2)" json:"unitPrice"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,2)" json:"totalPrice"`
	QtyDone      int             `gorm:"default:0" json:"qtyDone"`
	IsGift       bool            `gorm:"default:false" json:"isGift"`
	IsBestSeller bool            `gorm:"default:false" json:"isBestSeller"`
	IsNew        bool            `gorm:"default:false" json:"isNew"`
	Status       string          `gorm:"size:20" json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type Document struct {
	ID         string       `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string       `gorm:"size:36;not null;index" json:"orderId"`
	Type       DocumentType `gorm:"size:20;default:OTHER" json:"type"`
	Title      string       `gorm:"size:255" json:"title"`
	URL        string       `gorm:"size:500" json:"url"`
	UploadedAt time.Time    `json:"uploadedAt"`
	Status     string       `gorm:"size:20" json:"status"`
	Hash       string       `gorm:"size:128" json:"hash"`
	MimeType   string       `gorm:"size:100" json:"mimeType"`
	Size       int64        `json:"size"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
