package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
)

// Filters narrows the catalog listing. Zero values mean "no filter".
type Filters struct {
	Search    string
	Category  string
	CompanyID *uuid.UUID
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
}

// Repository encapsulates catalog persistence.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
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

func (r *gormRepository) List(ctx context.Context, filters Filters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Company").
		Where("is_active = ?", true)

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(features, '')) LIKE ?", pattern, pattern)
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filters.CompanyID != nil {
		query = query.Where("company_id = ?", *filters.CompanyID)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
