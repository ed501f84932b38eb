package discount

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

var ErrDiscountNotFound = errors.New("discount not found")

type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := s.db.WithContext(ctx).Find(&discounts).Error; err != nil {
		s.log.WithField("op", "listDiscounts").Error(err)
		return nil, err
	}
	return discounts, nil
}

// ActiveGlobalDiscounts returns the global discounts currently in their
// validity window. A nil EndDate means open-ended.
func (s *Service) ActiveGlobalDiscounts(ctx context.Context) ([]models.Discount, error) {
	now := time.Now()
	var discounts []models.Discount
	err := s.db.WithContext(ctx).
		Where("is_global = ? AND is_active = ?", true, true).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Find(&discounts).Error
	if err != nil {
		s.log.WithField("op", "activeGlobalDiscounts").Error(err)
		return nil, err
	}
	return discounts, nil
}

func (s *Service) GetDiscount(ctx context.Context, id int64) (*models.Discount, error) {
	var discount models.Discount
	if err := s.db.WithContext(ctx).First(&discount, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (s *Service) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	if discount.StartDate.IsZero() {
		discount.StartDate = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(discount).Error; err != nil {
		s.log.WithField("op", "createDiscount").Error(err)
		return err
	}
	return nil
}

func (s *Service) UpdateDiscount(ctx context.Context, id int64, updates *models.Discount) (*models.Discount, error) {
	var discount models.Discount
	if err := s.db.WithContext(ctx).First(&discount, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}

	updates.ID = 0
	if err := s.db.WithContext(ctx).Model(&discount).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateDiscount", "discountId": id}).Error(err)
		return nil, err
	}
	return s.GetDiscount(ctx, id)
}

func (s *Service) DeleteDiscount(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Discount{}, "id = ?", id)
	if res.Error != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteDiscount", "discountId": id}).Error(res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}
