package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/canvasphere/print_orders/internal/models"
)

var ErrNotFound = errors.New("order not found")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus sets the status and refreshes status_updated_at, returning the
// updated row. A missing order_id is reported as ErrNotFound, never a no-op.
func (r *GormRepo) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":            status,
			"status_updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetOrder(ctx, orderID)
}

func (r *GormRepo) DeleteOrder(ctx context.Context, orderID string) error {
	res := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteAllOrders(ctx context.Context) error {
	return r.DB.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.Order{}).Error
}
