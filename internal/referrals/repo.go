package referrals

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
)

// Repository encapsulates attribution and commission persistence.
type Repository interface {
	UpsertAttribution(ctx context.Context, sessionID, referrerID, source string) (*models.ReferralAttribution, error)
	FindAttribution(ctx context.Context, sessionID string) (*models.ReferralAttribution, error)
	DeleteAttribution(ctx context.Context, sessionID string) error
	CreateCommission(ctx context.Context, commission *models.Commission) error
	ListCommissionsByReferrer(ctx context.Context, referrerID string) ([]models.Commission, error)
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

func (r *gormRepository) UpsertAttribution(ctx context.Context, sessionID, referrerID, source string) (*models.ReferralAttribution, error) {
	record, err := r.FindAttribution(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = &models.ReferralAttribution{
			SessionID:  sessionID,
			ReferrerID: referrerID,
			Source:     source,
		}
		if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
			return nil, err
		}
		return record, nil
	}
	if err != nil {
		return nil, err
	}

	record.ReferrerID = referrerID
	record.Source = source
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *gormRepository) FindAttribution(ctx context.Context, sessionID string) (*models.ReferralAttribution, error) {
	var record models.ReferralAttribution
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) DeleteAttribution(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.ReferralAttribution{}).Error
}

func (r *gormRepository) CreateCommission(ctx context.Context, commission *models.Commission) error {
	if commission.Status == "" {
		commission.Status = enums.CommissionStatusPending
	}
	return r.db.WithContext(ctx).Create(commission).Error
}

func (r *gormRepository) ListCommissionsByReferrer(ctx context.Context, referrerID string) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&commissions).Error
	if err != nil {
		return nil, err
	}
	return commissions, nil
}

// sumByStatus totals commission amounts for one payout status.
func sumByStatus(commissions []models.Commission, status enums.CommissionStatus) decimal.Decimal {
	total := decimal.Zero
	for _, commission := range commissions {
		if commission.Status == status {
			total = total.Add(commission.Amount)
		}
	}
	return total
}
