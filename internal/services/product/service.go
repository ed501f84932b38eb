package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
)

const (
	PRODUCT_CACHE_KEY = "products:list"
	CACHE_TTL         = 10 * time.Minute
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSku    = errors.New("sku already exists")
)

type Service struct {
	db    *gorm.DB
	redis *redis.Client
	log   *logrus.Logger
}

func NewService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *Service {
	return &Service{db: db, redis: redisClient, log: log}
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, PRODUCT_CACHE_KEY)
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, PRODUCT_CACHE_KEY).Result(); err == nil {
			var products []models.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				return products, nil
			}
		}
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Preload("Images").Find(&products).Error; err != nil {
		s.log.WithField("op", "listProducts").Error(err)
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(products); err == nil {
			_ = s.redis.Set(ctx, PRODUCT_CACHE_KEY, payload, CACHE_TTL)
		}
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Images").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		s.log.WithFields(logrus.Fields{"op": "getProduct", "productId": id}).Error(err)
		return nil, err
	}
	return &product, nil
}

func (s *Service) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Sku != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("sku = ?", product.Sku).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSku
		}
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		s.log.WithField("op", "createProduct").Error(err)
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, updates *models.Product) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	updates.ID = 0
	updates.Images = nil
	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		s.log.WithFields(logrus.Fields{"op": "updateProduct", "productId": id}).Error(err)
		return nil, err
	}

	s.invalidateCache(ctx)
	return s.GetProduct(ctx, id)
}

// ReplaceImages swaps the whole image set of a product atomically.
func (s *Service) ReplaceImages(ctx context.Context, id int64, urls []string) (*models.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		for _, url := range urls {
			if err := tx.Create(&models.ProductImage{ProductID: id, URL: url}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "replaceImages", "productId": id}).Error(err)
		return nil, err
	}

	s.invalidateCache(ctx)
	return s.GetProduct(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": "deleteProduct", "productId": id}).Error(err)
		return err
	}
	s.invalidateCache(ctx)
	return nil
}
