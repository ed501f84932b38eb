package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:100" json:"category"`
	Sku         string          `gorm:"size:100;uniqueIndex" json:"sku"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,2)" json:"cost"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
}

type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"productId"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type Discount struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage"`
	IsGlobal   bool            `gorm:"default:false" json:"isGlobal"`
	IsActive   bool            `gorm:"default:true" json:"isActive"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    *time.Time      `json:"endDate"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type BannerStatus string

const (
	BannerStatusActive   BannerStatus = "ACTIVE"
	BannerStatusInactive BannerStatus = "INACTIVE"
	BannerStatusExpired  BannerStatus = "EXPIRED"
)

type Banner struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	ImageURL  string       `gorm:"size:500;not null" json:"imageUrl"`
	LinkURL   *string      `gorm:"size:500" json:"linkUrl"`
	Status    BannerStatus `gorm:"size:20;default:ACTIVE" json:"status"`
	DateInit  time.Time    `json:"dateInit"`
	DateEnd   time.Time    `json:"dateEnd"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type ExpenseCategory string

const (
	ExpenseCategoryInventory ExpenseCategory = "INVENTORY"
	ExpenseCategoryShipping  ExpenseCategory = "SHIPPING"
	ExpenseCategoryMarketing ExpenseCategory = "MARKETING"
	ExpenseCategoryServices  ExpenseCategory = "SERVICES"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

type Expense struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Category    ExpenseCategory `gorm:"size:20;default:OTHER" json:"category"`
	Date        time.Time       `json:"date"`
	State       bool            `gorm:"default:true" json:"state"`
	Voucher     *string         `gorm:"size:500" json:"voucher"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
