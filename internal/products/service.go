package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

type userLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ListInput mirrors the catalog query parameters.
type ListInput struct {
	Search    string
	Category  string
	CompanyID *uuid.UUID
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	UserID    *uuid.UUID
}

// ProductDTO is the storefront product wire shape.
type ProductDTO struct {
	ID                string                `json:"id"`
	Name              string                `json:"nombre"`
	Price             decimal.Decimal       `json:"precio"`
	Image             *string               `json:"imagen,omitempty"`
	Images            []string              `json:"imagenes"`
	Category          *string               `json:"categoria,omitempty"`
	Features          *string               `json:"caracteristicas,omitempty"`
	Inventory         int                   `json:"inventario"`
	TaxRate           decimal.Decimal       `json:"iva"`
	TaxIncluded       bool                  `json:"ivaIncluido"`
	ShippingAvailable bool                  `json:"envioDisponible"`
	FlatShippingCost  *decimal.Decimal      `json:"costoEnvio,omitempty"`
	Company           *types.CompanyRef     `json:"empresa,omitempty"`
	ShippingConfig    *types.ShippingConfig `json:"shippingConfig,omitempty"`
}

// Service exposes catalog reads.
type Service interface {
	List(ctx context.Context, input ListInput) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

type service struct {
	repo  Repository
	users userLoader
}

// NewService builds the catalog service.
func NewService(repo Repository, users userLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{repo: repo, users: users}, nil
}

// List returns the filtered catalog. A userId filter narrows the listing to
// the company owned by that user.
func (s *service) List(ctx context.Context, input ListInput) ([]ProductDTO, error) {
	filters := Filters{
		Search:    input.Search,
		Category:  input.Category,
		CompanyID: input.CompanyID,
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
	}

	if input.UserID != nil {
		user, err := s.users.GetByID(ctx, *input.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ProductDTO{}, nil
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user.CompanyID == nil {
			return []ProductDTO{}, nil
		}
		filters.CompanyID = user.CompanyID
	}

	records, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, fromModel(record))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := fromModel(*record)
	return &dto, nil
}

func fromModel(record models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                record.ID.String(),
		Name:              record.Name,
		Price:             record.Price,
		Image:             record.Image,
		Images:            record.Images,
		Category:          record.Category,
		Features:          record.Features,
		Inventory:         record.Inventory,
		TaxRate:           record.TaxRate,
		TaxIncluded:       record.TaxIncluded,
		ShippingAvailable: record.ShippingAvailable,
		FlatShippingCost:  record.FlatShippingCost,
		ShippingConfig:    record.ShippingConfig,
	}
	if dto.Images == nil {
		if record.Image != nil && *record.Image != "" {
			dto.Images = []string{*record.Image}
		} else {
			dto.Images = []string{}
		}
	}
	if record.Company != nil {
		ref := record.Company.Ref()
		dto.Company = &ref
	}
	return dto
}
