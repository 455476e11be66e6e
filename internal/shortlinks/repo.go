package shortlinks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
)

// Repository encapsulates short link and legacy referral code persistence.
type Repository interface {
	Create(ctx context.Context, link *models.ShortLink) error
	FindByCode(ctx context.Context, code string) (*models.ShortLink, error)
	FindReferralCodeByUser(ctx context.Context, userID uuid.UUID) (*models.ReferralCode, error)
	FindReferralCodeByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	UpsertReferralCode(ctx context.Context, userID uuid.UUID, code string) error
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

func (r *gormRepository) Create(ctx context.Context, link *models.ShortLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *gormRepository) FindByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *gormRepository) FindReferralCodeByUser(ctx context.Context, userID uuid.UUID) (*models.ReferralCode, error) {
	var record models.ReferralCode
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) FindReferralCodeByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	var record models.ReferralCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Order("created_at ASC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) UpsertReferralCode(ctx context.Context, userID uuid.UUID, code string) error {
	existing, err := r.FindReferralCodeByUser(ctx, userID)
	if err == nil {
		existing.Code = code
		return r.db.WithContext(ctx).Save(existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&models.ReferralCode{
		UserID: userID,
		Code:   code,
	}).Error
}
