package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Repository encapsulates durable cart snapshot persistence.
type Repository interface {
	FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
	SaveSnapshot(ctx context.Context, sessionID string, userID *uuid.UUID, items types.RawJSON) error
	DeleteBySession(ctx context.Context, sessionID string) error
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

func (r *gormRepository) FindBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepository) SaveSnapshot(ctx context.Context, sessionID string, userID *uuid.UUID, items types.RawJSON) error {
	record, err := r.FindBySession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = &models.CartRecord{
			SessionID: sessionID,
			UserID:    userID,
			Items:     items,
		}
		return r.db.WithContext(ctx).Create(record).Error
	}
	if err != nil {
		return err
	}

	record.Items = items
	if userID != nil {
		record.UserID = userID
	}
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *gormRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartRecord{}).Error
}
