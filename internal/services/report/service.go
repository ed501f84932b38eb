package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

type Overview struct {
	Products        int64           `json:"products"`
	Warehouses      int64           `json:"warehouses"`
	PendingOrders   int64           `json:"pendingOrders"`
	DeliveredOrders int64           `json:"deliveredOrders"`
	LowStockItems   int64           `json:"lowStockItems"`
	OutOfStockItems int64           `json:"outOfStockItems"`
	StockValue      decimal.Decimal `json:"stockValue"`
	ExpensesTotal   decimal.Decimal `json:"expensesTotal"`
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var overview Overview
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&overview.Products, db.Model(&models.Product{}).Where("is_active = ?", true)},
		{&overview.Warehouses, db.Model(&models.Warehouse{})},
		{&overview.PendingOrders, db.Model(&models.PurchaseOrder{}).Where("status = ?", models.OrderStatusPending)},
		{&overview.DeliveredOrders, db.Model(&models.PurchaseOrder{}).Where("status = ?", models.OrderStatusDelivered)},
		{&overview.LowStockItems, db.Model(&models.WarehouseItem{}).Where("status = ?", models.StockStatusLowStock)},
		{&overview.OutOfStockItems, db.Model(&models.WarehouseItem{}).Where("status = ?", models.StockStatusOutOfStock)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			s.log.WithField("op", "overview").Error(err)
			return nil, err
		}
	}

	var items []models.WarehouseItem
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		overview.StockValue = overview.StockValue.Add(
			item.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var expenses []models.Expense
	if err := db.Where("state = ?", true).Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		overview.ExpensesTotal = overview.ExpensesTotal.Add(expense.Amount)
	}

	return &overview, nil
}

type MonthSummary struct {
	Month    time.Month      `json:"month"`
	Orders   int             `json:"orders"`
	Purchase decimal.Decimal `json:"purchases"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// YearlySummary totals purchases and expenses per calendar month of one year.
func (s *Service) YearlySummary(ctx context.Context, year int) ([]MonthSummary, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var orders []models.PurchaseOrder
	err := s.db.WithContext(ctx).
		Where("order_date >= ? AND order_date < ?", from, to).
		Where("status <> ?", models.OrderStatusCancelled).
		Find(&orders).Error
	if err != nil {
		s.log.WithField("op", "yearlySummary").Error(err)
		return nil, err
	}

	var expenses []models.Expense
	err = s.db.WithContext(ctx).
		Where("date >= ? AND date < ? AND state = ?", from, to, true).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	months := make([]MonthSummary, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for _, order := range orders {
		m := &months[order.OrderDate.Month()-1]
		m.Orders++
		m.Purchase = m.Purchase.Add(order.TotalAmount)
	}
	for _, expense := range expenses {
		m := &months[expense.Date.Month()-1]
		m.Expenses = m.Expenses.Add(expense.Amount)
	}
	for i := range months {
		months[i].Net = months[i].Purchase.Sub(months[i].Expenses)
	}
	return months, nil
}

type CategoryCount struct {
	Category string `json:"category"`
	Products int64  `json:"products"`
}

func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*) AS products").
		Group("category").
		Order("products DESC").
		Scan(&counts).Error
	if err != nil {
		s.log.WithField("op", "categories").Error(err)
		return nil, err
	}
	return counts, nil
}

type inventoryRow struct {
	Warehouse string
	Product   string
	Sku       string
	Quantity  int
	Minimum   int
	Status    models.StockStatus
	Cost      decimal.Decimal
	Value     decimal.Decimal
}

// ExportInventoryXLSX renders the current inventory as a spreadsheet, one row
// per warehouse item, and returns the file bytes.
func (s *Service) ExportInventoryXLSX(ctx context.Context) ([]byte, error) {
	var items []models.WarehouseItem
	err := s.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Product").
		Find(&items).Error
	if err != nil {
		s.log.WithField("op", "exportInventory").Error(err)
		return nil, err
	}

	rows := make([]inventoryRow, 0, len(items))
	for _, item := range items {
		row := inventoryRow{
			Quantity: item.Quantity,
			Minimum:  item.MinimumStock,
			Status:   item.Status,
			Cost:     item.Cost,
			Value:    item.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Warehouse != nil {
			row.Warehouse = item.Warehouse.Name
		}
		if item.Product != nil {
			row.Product = item.Product.Name
			row.Sku = item.Product.Sku
		}
		rows = append(rows, row)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Warehouse", "Product", "SKU", "Quantity", "Minimum", "Status", "Unit Cost", "Stock Value"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Warehouse,
			row.Product,
			row.Sku,
			row.Quantity,
			row.Minimum,
			string(row.Status),
			row.Cost.InexactFloat64(),
			row.Value.InexactFloat64(),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	footer, _ := excelize.CoordinatesToCellName(1, len(rows)+3)
	_ = f.SetCellValue(sheet, footer, fmt.Sprintf("Generated %s", time.Now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
