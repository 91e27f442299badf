package store

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/metrics"
	"gorm.io/gorm"
)

// UserStats aggregates a user's order history.
type UserStats struct {
	UserID      uint    `json:"user_id"`
	TotalOrders int64   `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
}

// UserStore persists users.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns every user. An empty table yields an empty list.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	defer metrics.ObserveDBQuery("user.list", time.Now())

	users := []models.User{}
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// Get fetches one user by id.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.ObserveDBQuery("user.get", time.Now())

	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// GetByEmail fetches one user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("user.get_by_email", time.Now())

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// Create inserts a user. A duplicate email maps to a conflict.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("user.create", time.Now())

	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("email already registered")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Update saves the full user row. A duplicate email maps to a conflict.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("user.update", time.Now())

	err := s.db.WithContext(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("email already registered")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Delete removes a user. Users with existing orders cannot be deleted.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("user.delete", time.Now())

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", id).
		Count(&orderCount).Error; err != nil {
		return apperr.Internal(err)
	}
	if orderCount > 0 {
		return apperr.Conflict("user has existing orders")
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Stats returns the order count and lifetime spend for one user,
// priced at current product prices.
func (s *UserStore) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	defer metrics.ObserveDBQuery("user.stats", time.Now())

	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	stats := UserStats{UserID: userID}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(products.price), 0)").
		Joins("JOIN order_products ON order_products.order_id = orders.id").
		Joins("JOIN products ON products.id = order_products.product_id").
		Where("orders.user_id = ?", userID).
		Scan(&stats.TotalSpent).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &stats, nil
}
