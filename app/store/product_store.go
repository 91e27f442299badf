package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/cache"
	"github.com/shashiranjanraj/vampware/pkg/metrics"
	"gorm.io/gorm"
)

const (
	productCacheVersionKey = "products:version"
	productCacheTTL        = 10 * time.Minute
)

// ProductPage is one page of the catalog plus its envelope.
type ProductPage struct {
	Items []models.Product `json:"products"`
	Meta  Pagination       `json:"pagination"`
}

// ProductStore persists products. Paginated listings are cached in
// Redis under a versioned key; any write bumps the version so stale
// pages are never served.
type ProductStore struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewProductStore(db *gorm.DB, c *cache.Cache) *ProductStore {
	return &ProductStore{db: db, cache: c}
}

// Paginate returns one page of products. An out-of-range page yields
// an empty item list with a truthful envelope.
func (s *ProductStore) Paginate(ctx context.Context, page, perPage int) (*ProductPage, error) {
	defer metrics.ObserveDBQuery("product.paginate", time.Now())

	key := s.pageKey(ctx, page, perPage)
	var cached ProductPage
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.Inc()
		return &cached, nil
	}
	metrics.CacheMisses.Inc()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var items []models.Product
	err := s.db.WithContext(ctx).
		Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if items == nil {
		items = []models.Product{}
	}

	result := &ProductPage{
		Items: items,
		Meta:  NewPagination(page, perPage, int(total)),
	}
	s.cache.Set(ctx, key, result, productCacheTTL)
	return result, nil
}

// Get fetches one product by id.
func (s *ProductStore) Get(ctx context.Context, id uint) (*models.Product, error) {
	defer metrics.ObserveDBQuery("product.get", time.Now())

	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &product, nil
}

// Create inserts a product and invalidates cached pages.
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("product.create", time.Now())

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperr.Internal(err)
	}
	s.bumpVersion(ctx)
	return nil
}

// Update saves the full product row and invalidates cached pages.
func (s *ProductStore) Update(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("product.update", time.Now())

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return apperr.Internal(err)
	}
	s.bumpVersion(ctx)
	return nil
}

// Delete removes one product along with its order associations.
func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("product.delete", time.Now())

	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
	if err != nil {
		return apperr.Internal(err)
	}
	s.bumpVersion(ctx)
	return nil
}

// DeleteMany removes the products that exist among ids and reports how
// many were deleted. A batch matching nothing is a not-found condition.
func (s *ProductStore) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	defer metrics.ObserveDBQuery("product.delete_many", time.Now())

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []uint
		if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		if len(found) == 0 {
			return apperr.NotFound("no matching products found")
		}
		if err := tx.Where("product_id IN ?", found).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", found).Delete(&models.Product{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	s.bumpVersion(ctx)
	return deleted, nil
}

// OrdersFor returns the orders that contain a product. A product with
// no orders is a not-found condition.
func (s *ProductStore) OrdersFor(ctx context.Context, productID uint) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("product.orders_for", time.Now())

	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Products").
		Joins("JOIN order_products ON order_products.order_id = orders.id").
		Where("order_products.product_id = ?", productID).
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("no orders found for this product")
	}
	return orders, nil
}

// UsersFor returns the distinct users who have ordered a product. A
// product nobody ordered is a not-found condition.
func (s *ProductStore) UsersFor(ctx context.Context, productID uint) ([]models.User, error) {
	defer metrics.ObserveDBQuery("product.users_for", time.Now())

	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Distinct("users.*").
		Joins("JOIN orders ON orders.user_id = users.id").
		Joins("JOIN order_products ON order_products.order_id = orders.id").
		Where("order_products.product_id = ?", productID).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("no users found for this product")
	}
	return users, nil
}

func (s *ProductStore) pageKey(ctx context.Context, page, perPage int) string {
	version := s.cache.GetInt(ctx, productCacheVersionKey)
	return fmt.Sprintf("products:v%d:page:%d:per:%d", version, page, perPage)
}

func (s *ProductStore) bumpVersion(ctx context.Context) {
	s.cache.Incr(ctx, productCacheVersionKey)
}
