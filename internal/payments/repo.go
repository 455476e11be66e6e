package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
)

// Repository persists confirmed orders.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByPaymentReference(ctx context.Context, reference string) (*models.Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &gormRepository{db: tx}
}

func (r *gormRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormRepository) FindOrderByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("payment_reference = ?", reference).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
