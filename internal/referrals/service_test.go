package referrals

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
)

type fakeRepo struct {
	attributions map[string]*models.ReferralAttribution
	commissions  []models.Commission
	failCreate   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{attributions: map[string]*models.ReferralAttribution{}}
}

func (f *fakeRepo) UpsertAttribution(ctx context.Context, sessionID, referrerID, source string) (*models.ReferralAttribution, error) {
	record := &models.ReferralAttribution{
		SessionID:  sessionID,
		ReferrerID: referrerID,
		Source:     source,
		UpdatedAt:  time.Now(),
	}
	f.attributions[sessionID] = record
	return record, nil
}

func (f *fakeRepo) FindAttribution(ctx context.Context, sessionID string) (*models.ReferralAttribution, error) {
	record, ok := f.attributions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeRepo) DeleteAttribution(ctx context.Context, sessionID string) error {
	delete(f.attributions, sessionID)
	return nil
}

func (f *fakeRepo) CreateCommission(ctx context.Context, commission *models.Commission) error {
	if f.failCreate {
		return errors.New("store down")
	}
	if commission.Status == "" {
		commission.Status = enums.CommissionStatusPending
	}
	f.commissions = append(f.commissions, *commission)
	return nil
}

func (f *fakeRepo) ListCommissionsByReferrer(ctx context.Context, referrerID string) ([]models.Commission, error) {
	var matched []models.Commission
	for _, commission := range f.commissions {
		if commission.ReferrerID == referrerID {
			matched = append(matched, commission)
		}
	}
	return matched, nil
}

func testService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	logg := logger.New(logger.Options{Output: io.Discard})
	svc, err := NewService(repo, logg, config.ReferralsConfig{CommissionRatePercent: 10})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo
}

func TestRecordIsLastTouch(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "sess", "user-a", "referral"); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if _, err := svc.Record(ctx, "sess", "user-b", "shared-cart"); err != nil {
		t.Fatalf("second record failed: %v", err)
	}

	attribution, err := svc.Read(ctx, "sess")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if attribution.ReferrerID != "user-b" {
		t.Fatalf("referrer = %q, want user-b (last touch wins)", attribution.ReferrerID)
	}
	if attribution.Source != "shared-cart" {
		t.Fatalf("source = %q, want shared-cart", attribution.Source)
	}
}

func TestRecordDefaultsSource(t *testing.T) {
	svc, _ := testService(t)

	attribution, err := svc.Record(context.Background(), "sess", "user-a", "")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if attribution.Source != "referral" {
		t.Fatalf("source = %q, want referral", attribution.Source)
	}
}

func TestReadWithoutAttributionReturnsNil(t *testing.T) {
	svc, _ := testService(t)

	attribution, err := svc.Read(context.Background(), "sess")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if attribution != nil {
		t.Fatalf("expected nil attribution, got %+v", attribution)
	}
}

func TestClearRemovesAttribution(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "sess", "user-a", ""); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Clear(ctx, "sess"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	attribution, err := svc.Read(ctx, "sess")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if attribution != nil {
		t.Fatalf("expected nil attribution after clear, got %+v", attribution)
	}
}

func TestCreateCommissionComputesAmountServerSide(t *testing.T) {
	svc, repo := testService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "sess", "user-a", ""); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	commission, err := svc.CreateCommission(ctx, CommissionInput{
		SessionID:      "sess",
		OrderReference: "pi_123",
		OrderTotal:     decimal.NewFromInt(271),
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if commission == nil {
		t.Fatal("expected a commission")
	}
	if !commission.Amount.Equal(decimal.NewFromFloat(27.1)) {
		t.Fatalf("amount = %s, want 27.1", commission.Amount)
	}
	if commission.RatePercent != 10 {
		t.Fatalf("rate = %d, want 10", commission.RatePercent)
	}
	if commission.ReferrerID != "user-a" {
		t.Fatalf("referrer = %q, want user-a", commission.ReferrerID)
	}
	if len(repo.commissions) != 1 {
		t.Fatalf("expected 1 stored commission, got %d", len(repo.commissions))
	}
}

func TestCreateCommissionWithoutAttributionIsNoop(t *testing.T) {
	svc, repo := testService(t)

	commission, err := svc.CreateCommission(context.Background(), CommissionInput{
		SessionID:      "sess",
		OrderReference: "pi_123",
		OrderTotal:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if commission != nil {
		t.Fatalf("expected no commission, got %+v", commission)
	}
	if len(repo.commissions) != 0 {
		t.Fatalf("expected no stored commissions, got %d", len(repo.commissions))
	}
}

func TestStats(t *testing.T) {
	svc, repo := testService(t)

	repo.commissions = []models.Commission{
		{ReferrerID: "user-a", Amount: decimal.NewFromInt(10), Status: enums.CommissionStatusPending},
		{ReferrerID: "user-a", Amount: decimal.NewFromInt(20), Status: enums.CommissionStatusPaid},
		{ReferrerID: "user-b", Amount: decimal.NewFromInt(99), Status: enums.CommissionStatusPending},
	}

	stats, err := svc.Stats(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalCommissions != 2 {
		t.Fatalf("total = %d, want 2", stats.TotalCommissions)
	}
	if !stats.TotalEarned.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("earned = %s, want 30", stats.TotalEarned)
	}
	if !stats.PendingAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("pending = %s, want 10", stats.PendingAmount)
	}
	if !stats.PaidAmount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("paid = %s, want 20", stats.PaidAmount)
	}
}
