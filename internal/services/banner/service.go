package banner

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

var ErrBannerNotFound = errors.New("banner not found")

type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := s.db.WithContext(ctx).Order("date_init DESC").Find(&banners).Error; err != nil {
		s.log.WithField("op", "listBanners").Error(err)
		return nil, err
	}
	return banners, nil
}

// ActiveBanners returns ACTIVE banners whose display window covers now.
func (s *Service) ActiveBanners(ctx context.Context) ([]models.Banner, error) {
	now := time.Now()
	var banners []models.Banner
	err := s.db.WithContext(ctx).
		Where("status = ?", models.BannerStatusActive).
		Where("date_init <= ? AND date_end >= ?", now, now).
		Order("date_init DESC").
		Find(&banners).Error
	if err != nil {
		s.log.WithField("op", "activeBanners").Error(err)
		return nil, err
	}
	return banners, nil
}

func (s *Service) GetBanner(ctx context.Context, id string) (*models.Banner, error) {
	var banner models.Banner
	if err := s.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}
	return &banner, nil
}

func (s *Service) CreateBanner(ctx context.Context, banner *models.Banner) error {
	if banner.Status == "" {
		banner.Status = models.BannerStatusActive
	}
	if err := s.db.WithContext(ctx).Create(banner).Error; err != nil {
		s.log.WithField("op", "createBanner").Error(err)
		return err
	}
	return nil
}

func (s *Service) UpdateBanner(ctx context.Context, id string, updates *models.Banner) (*models.Banner, error) {
	var banner models.Banner
	if err := s.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}

	updates.ID = ""
	if err := s.db.WithContext(ctx).Model(&banner).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateBanner", "bannerId": id}).Error(err)
		return nil, err
	}
	return s.GetBanner(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id string, status models.BannerStatus) (*models.Banner, error) {
	res := s.db.WithContext(ctx).Model(&models.Banner{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		s.log.WithFields(logrus.Fields{"op": "setBannerStatus", "bannerId": id}).Error(res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBannerNotFound
	}
	return s.GetBanner(ctx, id)
}

func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if res.Error != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteBanner", "bannerId": id}).Error(res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBannerNotFound
	}
	return nil
}
