package expense

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

type Filter struct {
	Category models.ExpenseCategory
	From     *time.Time
	To       *time.Time
}

func (s *Service) ListExpenses(ctx context.Context, filter Filter) ([]models.Expense, error) {
	query := s.db.WithContext(ctx).Model(&models.Expense{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC").Find(&expenses).Error; err != nil {
		s.log.WithField("op", "listExpenses").Error(err)
		return nil, err
	}
	return expenses, nil
}

func (s *Service) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (s *Service) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Category == "" {
		expense.Category = models.ExpenseCategoryOther
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		s.log.WithField("op", "createExpense").Error(err)
		return err
	}
	return nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, updates *models.Expense) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	updates.ID = ""
	if err := s.db.WithContext(ctx).Model(&expense).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateExpense", "expenseId": id}).Error(err)
		return nil, err
	}
	return s.GetExpense(ctx, id)
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	if res.Error != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteExpense", "expenseId": id}).Error(res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

type CategorySummary struct {
	Category models.ExpenseCategory `json:"category"`
	Total    decimal.Decimal        `json:"total"`
	Count    int                    `json:"count"`
}

// Summary totals expenses per category over the filtered window. Disabled
// expenses (state = false) are excluded.
func (s *Service) Summary(ctx context.Context, filter Filter) ([]CategorySummary, error) {
	expenses, err := s.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}

	byCategory := map[models.ExpenseCategory]*CategorySummary{}
	order := []models.ExpenseCategory{}
	for _, expense := range expenses {
		if !expense.State {
			continue
		}
		entry, ok := byCategory[expense.Category]
		if !ok {
			entry = &CategorySummary{Category: expense.Category}
			byCategory[expense.Category] = entry
			order = append(order, expense.Category)
		}
		entry.Total = entry.Total.Add(expense.Amount)
		entry.Count++
	}

	summaries := make([]CategorySummary, 0, len(order))
	for _, category := range order {
		summaries = append(summaries, *byCategory[category])
	}
	return summaries, nil
}
