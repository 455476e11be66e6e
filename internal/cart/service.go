package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/internal/shipping"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Cart is the session cart view returned by every operation.
type Cart struct {
	Items      []types.LineItem `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
}

// AddInput is the product payload accepted when adding to the cart. Optional
// commerce fields default the same way stored snapshots are migrated.
type AddInput struct {
	ID                     string                `json:"id" validate:"required"`
	Name                   string                `json:"nombre" validate:"required"`
	Price                  decimal.Decimal       `json:"precio"`
	Image                  *string               `json:"imagen"`
	Images                 []string              `json:"imagenes"`
	Category               *string               `json:"categoria"`
	Features               *string               `json:"caracteristicas"`
	Inventory              *int                  `json:"inventario"`
	TaxRate                *decimal.Decimal      `json:"iva"`
	TaxIncluded            *bool                 `json:"ivaIncluido"`
	ShippingAvailable      *bool                 `json:"envioDisponible"`
	FlatShippingCost       *decimal.Decimal      `json:"costoEnvio"`
	Company                *types.CompanyRef     `json:"empresa"`
	ShippingConfig         *types.ShippingConfig `json:"shippingConfig"`
	FreeLocal              *bool                 `json:"envioGratisLocal"`
	Provincial             *decimal.Decimal      `json:"envioProvincial"`
	National               *decimal.Decimal      `json:"envioNacional"`
	International          *decimal.Decimal      `json:"envioInternacional"`
	InternationalAvailable *bool                 `json:"envioInternacionalDisponible"`
}

// Service owns the canonical cart line items for each browsing session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Add(ctx context.Context, sessionID string, userID *uuid.UUID, input AddInput) (*Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (*Cart, error)
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	Replace(ctx context.Context, sessionID string, userID *uuid.UUID, items []types.LineItem) (*Cart, error)
	Summary(ctx context.Context, sessionID string, buyer types.Location) (*shipping.Summary, error)
	Totals(ctx context.Context, sessionID string) (*shipping.Totals, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the cart service backed by the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildCart(items), nil
}

func (s *service) Add(ctx context.Context, sessionID string, userID *uuid.UUID, input AddInput) (*Cart, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].ID == input.ID {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, buildLineItem(input))
	}

	if err := s.persist(ctx, sessionID, userID, items); err != nil {
		return nil, err
	}
	return buildCart(items), nil
}

func (s *service) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.persist(ctx, sessionID, nil, kept); err != nil {
		return nil, err
	}
	return buildCart(kept), nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, productID)
	}

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
		}
	}

	if err := s.persist(ctx, sessionID, nil, items); err != nil {
		return nil, err
	}
	return buildCart(items), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteBySession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Replace(ctx context.Context, sessionID string, userID *uuid.UUID, items []types.LineItem) (*Cart, error) {
	normalized := make([]types.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		normalized = append(normalized, item)
	}

	if err := s.persist(ctx, sessionID, userID, normalized); err != nil {
		return nil, err
	}
	return buildCart(normalized), nil
}

func (s *service) Summary(ctx context.Context, sessionID string, buyer types.Location) (*shipping.Summary, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := shipping.SummarizeCart(items, buyer)
	return &summary, nil
}

func (s *service) Totals(ctx context.Context, sessionID string) (*shipping.Totals, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	totals := shipping.AggregateCosts(items)
	return &totals, nil
}

// load reads and migrates the stored snapshot. Malformed snapshots fall back
// to an empty cart instead of failing the request.
func (s *service) load(ctx context.Context, sessionID string) ([]types.LineItem, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	record, err := s.repo.FindBySession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.LineItem{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, decodeErr := decodeSnapshot(record.Items)
	if decodeErr != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding malformed cart snapshot")
		return []types.LineItem{}, nil
	}
	return items, nil
}

func (s *service) persist(ctx context.Context, sessionID string, userID *uuid.UUID, items []types.LineItem) error {
	snapshot, err := encodeSnapshot(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.repo.SaveSnapshot(ctx, sessionID, userID, snapshot); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func buildCart(items []types.LineItem) *Cart {
	cart := &Cart{
		Items:      items,
		TotalPrice: decimal.Zero,
	}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(item.LineTotal())
	}
	return cart
}

func buildLineItem(input AddInput) types.LineItem {
	item := types.LineItem{
		ID:          input.ID,
		Name:        input.Name,
		Price:       input.Price,
		Image:       input.Image,
		Images:      input.Images,
		Quantity:    1,
		Category:    input.Category,
		Features:    input.Features,
		TaxIncluded: true,
		Company:     input.Company,
	}

	if input.Inventory != nil {
		item.Inventory = *input.Inventory
	}
	if input.TaxRate != nil {
		item.TaxRate = *input.TaxRate
	}
	if input.TaxIncluded != nil {
		item.TaxIncluded = *input.TaxIncluded
	}
	if input.ShippingAvailable != nil {
		item.ShippingAvailable = *input.ShippingAvailable
	}
	if input.FlatShippingCost != nil {
		item.FlatShippingCost = input.FlatShippingCost
	}

	if item.Images == nil {
		if input.Image != nil && *input.Image != "" {
			item.Images = []string{*input.Image}
		} else {
			item.Images = []string{}
		}
	}

	if input.ShippingConfig != nil {
		item.ShippingConfig = input.ShippingConfig
	} else {
		cfg := types.DefaultShippingConfig()
		if input.FreeLocal != nil {
			cfg.FreeLocal = *input.FreeLocal
		}
		if input.Provincial != nil {
			cfg.Provincial = *input.Provincial
		}
		if input.National != nil {
			cfg.National = *input.National
		}
		if input.International != nil {
			cfg.International = *input.International
		}
		if input.InternationalAvailable != nil {
			cfg.InternationalAvailable = *input.InternationalAvailable
		}
		item.ShippingConfig = &cfg
	}

	return item
}
