package referrals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

const defaultSource = "referral"

// Attribution is the recorded referrer for one browsing session.
type Attribution struct {
	ReferrerID string    `json:"referredBy"`
	Source     string    `json:"referralSource"`
	Timestamp  time.Time `json:"referralTimestamp"`
}

// CommissionInput carries the purchase facts used to credit a referrer.
// The commission amount is recomputed here from the configured rate; the
// client-supplied amount is never trusted.
type CommissionInput struct {
	SessionID      string
	BuyerID        *uuid.UUID
	BuyerEmail     *string
	BuyerName      *string
	OrderReference string
	OrderTotal     decimal.Decimal
	Provider       string
}

// Stats summarizes a referrer's earnings.
type Stats struct {
	TotalCommissions int             `json:"totalCommissions"`
	TotalEarned      decimal.Decimal `json:"totalEarned"`
	PendingAmount    decimal.Decimal `json:"pendingAmount"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
}

// Service is the referral attribution ledger.
type Service interface {
	Record(ctx context.Context, sessionID, referrerID, source string) (*Attribution, error)
	Read(ctx context.Context, sessionID string) (*Attribution, error)
	Clear(ctx context.Context, sessionID string) error
	CreateCommission(ctx context.Context, input CommissionInput) (*models.Commission, error)
	Stats(ctx context.Context, referrerID string) (*Stats, error)
	Commissions(ctx context.Context, referrerID string) ([]models.Commission, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	cfg  config.ReferralsConfig
}

// NewService builds the referral ledger service.
func NewService(repo Repository, logg *logger.Logger, cfg config.ReferralsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referral repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.CommissionRatePercent <= 0 || cfg.CommissionRatePercent > 100 {
		return nil, fmt.Errorf("commission rate must be between 1 and 100")
	}
	return &service{repo: repo, logg: logg, cfg: cfg}, nil
}

// Record stores the referrer for a session, overwriting any prior value.
// Attribution is last-touch: the most recent link wins.
func (s *service) Record(ctx context.Context, sessionID, referrerID, source string) (*Attribution, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if strings.TrimSpace(referrerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "referrer id is required")
	}
	if strings.TrimSpace(source) == "" {
		source = defaultSource
	}

	record, err := s.repo.UpsertAttribution(ctx, sessionID, referrerID, source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record attribution")
	}
	return attributionFromModel(record), nil
}

// Read returns the current attribution, or nil when the session has none.
func (s *service) Read(ctx context.Context, sessionID string) (*Attribution, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	record, err := s.repo.FindAttribution(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read attribution")
	}
	return attributionFromModel(record), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.repo.DeleteAttribution(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear attribution")
	}
	return nil
}

// CreateCommission credits the session's referrer with the configured share
// of the order total. Sessions without an attribution produce no commission
// and no error.
func (s *service) CreateCommission(ctx context.Context, input CommissionInput) (*models.Commission, error) {
	if strings.TrimSpace(input.OrderReference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	if input.OrderTotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be non-negative")
	}

	attribution, err := s.Read(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if attribution == nil {
		return nil, nil
	}

	rate := decimal.NewFromInt(int64(s.cfg.CommissionRatePercent))
	amount := input.OrderTotal.Mul(rate).Div(decimal.NewFromInt(100))

	commission := &models.Commission{
		ReferrerID:     attribution.ReferrerID,
		BuyerID:        input.BuyerID,
		BuyerEmail:     input.BuyerEmail,
		BuyerName:      input.BuyerName,
		OrderReference: input.OrderReference,
		OrderTotal:     input.OrderTotal,
		Amount:         amount,
		RatePercent:    s.cfg.CommissionRatePercent,
	}
	if err := s.repo.CreateCommission(ctx, commission); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create commission")
	}
	return commission, nil
}

func (s *service) Stats(ctx context.Context, referrerID string) (*Stats, error) {
	commissions, err := s.Commissions(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalCommissions: len(commissions),
		TotalEarned:      decimal.Zero,
		PendingAmount:    decimal.Zero,
		PaidAmount:       decimal.Zero,
	}
	for _, commission := range commissions {
		stats.TotalEarned = stats.TotalEarned.Add(commission.Amount)
	}
	stats.PendingAmount = sumByStatus(commissions, enums.CommissionStatusPending)
	stats.PaidAmount = sumByStatus(commissions, enums.CommissionStatusPaid)
	return stats, nil
}

func (s *service) Commissions(ctx context.Context, referrerID string) ([]models.Commission, error) {
	if strings.TrimSpace(referrerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "referrer id is required")
	}
	commissions, err := s.repo.ListCommissionsByReferrer(ctx, referrerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commissions")
	}
	return commissions, nil
}

func attributionFromModel(record *models.ReferralAttribution) *Attribution {
	return &Attribution{
		ReferrerID: record.ReferrerID,
		Source:     record.Source,
		Timestamp:  record.UpdatedAt,
	}
}
