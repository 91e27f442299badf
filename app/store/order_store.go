package store

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/metrics"
	"gorm.io/gorm"
)

// OrderTotal prices one order at current product prices.
type OrderTotal struct {
	OrderID      uint    `json:"order_id"`
	TotalPrice   float64 `json:"total_price"`
	ProductCount int64   `json:"product_count"`
}

// OrderStore persists orders and their product associations.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create inserts an order with its product set in one transaction. The
// user and every product must exist or nothing is written.
func (s *OrderStore) Create(ctx context.Context, userID uint, productIDs []uint) (*models.Order, error) {
	defer metrics.ObserveDBQuery("order.create", time.Now())

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			return apperr.NotFound("user not found")
		}

		products, err := findAllProducts(tx, productIDs)
		if err != nil {
			return err
		}

		order = models.Order{UserID: userID}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Association("Products").Append(products); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("duplicate product in order")
			}
			return err
		}
		order.Products = dereference(products)
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &order, nil
}

// List returns every order with its products preloaded.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("order.list", time.Now())

	orders := []models.Order{}
	if err := s.db.WithContext(ctx).Preload("Products").Find(&orders).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// Get fetches one order with its products preloaded.
func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	defer metrics.ObserveDBQuery("order.get", time.Now())

	var order models.Order
	err := s.db.WithContext(ctx).Preload("Products").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &order, nil
}

// Update applies a partial order update in one transaction: re-point
// the order to another user, replace the whole product set, or both.
// Nil means the field was not supplied.
func (s *OrderStore) Update(ctx context.Context, orderID uint, userID *uint, productIDs []uint) (*models.Order, error) {
	defer metrics.ObserveDBQuery("order.update", time.Now())

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found models.Order
		if err := tx.Preload("Products").First(&found, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return err
		}

		if userID != nil {
			var userCount int64
			if err := tx.Model(&models.User{}).Where("id = ?", *userID).Count(&userCount).Error; err != nil {
				return err
			}
			if userCount == 0 {
				return apperr.NotFound("user not found")
			}
			found.UserID = *userID
			if err := tx.Model(&found).Update("user_id", *userID).Error; err != nil {
				return err
			}
		}

		if productIDs != nil {
			products, err := findAllProducts(tx, productIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&found).Association("Products").Replace(products); err != nil {
				return err
			}
			found.Products = dereference(products)
		}

		order = &found
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return order, nil
}

// Delete removes an order and its product associations.
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("order.delete", time.Now())

	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(order).Error
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// AddProduct associates one product with an order. Adding a product
// the order already holds is a conflict.
func (s *OrderStore) AddProduct(ctx context.Context, orderID, productID uint) error {
	defer metrics.ObserveDBQuery("order.add_product", time.Now())

	if _, err := s.Get(ctx, orderID); err != nil {
		return err
	}

	var productCount int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).Count(&productCount).Error; err != nil {
		return apperr.Internal(err)
	}
	if productCount == 0 {
		return apperr.NotFound("product not found")
	}

	row := models.OrderProduct{OrderID: orderID, ProductID: productID}
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("product already in order")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// RemoveProduct drops one product from an order. Removing a product
// the order does not hold is a not-found condition.
func (s *OrderStore) RemoveProduct(ctx context.Context, orderID, productID uint) error {
	defer metrics.ObserveDBQuery("order.remove_product", time.Now())

	if _, err := s.Get(ctx, orderID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&models.OrderProduct{})
	if result.Error != nil {
		return apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("product not in order")
	}
	return nil
}

// ForUser returns a user's orders with products preloaded. A user with
// no orders is a not-found condition.
func (s *OrderStore) ForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("order.for_user", time.Now())

	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if userCount == 0 {
		return nil, apperr.NotFound("user not found")
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Products").
		Where("user_id = ?", userID).
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("no orders found for this user")
	}
	return orders, nil
}

// ProductsIn returns the products inside one order. An empty order is
// a not-found condition.
func (s *OrderStore) ProductsIn(ctx context.Context, orderID uint) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("order.products_in", time.Now())

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Products) == 0 {
		return nil, apperr.NotFound("no products found in this order")
	}
	return order.Products, nil
}

// Total prices one order at current product prices.
func (s *OrderStore) Total(ctx context.Context, orderID uint) (*OrderTotal, error) {
	defer metrics.ObserveDBQuery("order.total", time.Now())

	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}

	total := OrderTotal{OrderID: orderID}

	err := s.db.WithContext(ctx).Model(&models.OrderProduct{}).
		Where("order_id = ?", orderID).
		Count(&total.ProductCount).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	err = s.db.WithContext(ctx).Model(&models.OrderProduct{}).
		Select("COALESCE(SUM(products.price), 0)").
		Joins("JOIN products ON products.id = order_products.product_id").
		Where("order_products.order_id = ?", orderID).
		Scan(&total.TotalPrice).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total.TotalPrice = math.Round(total.TotalPrice*100) / 100

	return &total, nil
}

// ByDateRange returns orders created between two dates, both ends
// inclusive of the whole day.
func (s *OrderStore) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("order.by_date_range", time.Now())

	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Products").
		Where("order_date >= ? AND order_date < ?", start, end.AddDate(0, 0, 1)).
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("no orders found in this date range")
	}
	return orders, nil
}

// findAllProducts loads every requested product or fails for the whole
// set.
func findAllProducts(tx *gorm.DB, ids []uint) ([]*models.Product, error) {
	var products []*models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	if len(products) != len(uniqueIDs(ids)) {
		return nil, apperr.NotFound("one or more products not found")
	}
	return products, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func dereference(products []*models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	return out
}

// wrapStoreErr keeps apperr kinds intact and wraps everything else as
// internal.
func wrapStoreErr(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}
