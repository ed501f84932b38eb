package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

type MovementType string

const (
	MovementTypeIn  MovementType = "IN"
	MovementTypeOut MovementType = "OUT"
)

type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "ACTIVE"
	WarehouseStatusInactive WarehouseStatus = "INACTIVE"
)

type Warehouse struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Location          string          `gorm:"size:255" json:"location"`
	Address           string          `gorm:"size:255" json:"address"`
	Manager           string          `gorm:"size:100" json:"manager"`
	Phone             string          `gorm:"size:50" json:"phone"`
	Email             string          `gorm:"size:100" json:"email"`
	Capacity          int             `json:"capacity"`
	CurrentOccupancy  int             `json:"currentOccupancy"`
	Status            WarehouseStatus `gorm:"size:20;default:ACTIVE" json:"status"`
	LastInventoryDate *time.Time      `json:"lastInventoryDate"`
	Notes             *string         `gorm:"size:500" json:"notes"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	Items []WarehouseItem `gorm:"foreignKey:WarehouseID" json:"items,omitempty"`
}

func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type WarehouseItem struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	WarehouseID  string          `gorm:"size:36;not null;uniqueIndex:idx_warehouse_product" json:"warehouseId"`
	ProductID    int64           `gorm:"not null;uniqueIndex:idx_warehouse_product" json:"productId"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	MinimumStock int             `gorm:"not null;default:0" json:"minimumStock"`
	Location     string          `gorm:"size:100" json:"location"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	Cost         decimal.Decimal `gorm:"type:decimal(18,2)" json:"cost"`
	Status       StockStatus     `gorm:"size:20;not null" json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Warehouse *Warehouse      `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Movements []StockMovement `gorm:"foreignKey:ItemID" json:"movements,omitempty"`
}

func (i *WarehouseItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// StockMovement rows are append-only: created alongside the item mutation,
// never updated or deleted.
type StockMovement struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	ItemID    string       `gorm:"size:36;not null;index" json:"itemId"`
	Type      MovementType `gorm:"size:10;not null" json:"type"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	UserID    string       `gorm:"size:36;not null" json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
