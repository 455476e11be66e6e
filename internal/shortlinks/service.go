package shortlinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/security"
	"github.com/tiendaref/tiendaref-backend/pkg/types"
)

// Redirect targets handed to the storefront after resolution.
const (
	redirectSharedCart   = "/shared-cart"
	redirectRegistration = "/register"
)

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ShortLinkKey(code string) string
	ReferralCodeKey(userID string) string
}

// cachedRecord is the JSON payload stored under short_link cache keys.
type cachedRecord struct {
	Kind        enums.ShortLinkKind `json:"type"`
	OwnerUserID string              `json:"userId,omitempty"`
	Items       []types.LineItem    `json:"items,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Resolution is the outcome of resolving a short code. Unknown codes are not
// errors: they resolve to a plain registration redirect.
type Resolution struct {
	Found      bool                `json:"found"`
	Kind       enums.ShortLinkKind `json:"type,omitempty"`
	ReferrerID string              `json:"referrerId,omitempty"`
	Items      []types.LineItem    `json:"items,omitempty"`
	RedirectTo string              `json:"redirectTo"`
}

// CreatedLink is the shareable result of generating a short code.
type CreatedLink struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

// Service resolves and generates short codes for shared carts and referrals.
type Service interface {
	Resolve(ctx context.Context, code string) (*Resolution, error)
	CreateSharedCart(ctx context.Context, ownerID uuid.UUID, items []types.LineItem) (*CreatedLink, error)
	CreateReferral(ctx context.Context, ownerID uuid.UUID) (*CreatedLink, error)
}

type service struct {
	repo    Repository
	cache   cache
	logg    *logger.Logger
	cfg     config.ShortLinksConfig
	baseURL string
}

// NewService builds the short link service.
func NewService(repo Repository, store cache, logg *logger.Logger, cfg config.ShortLinksConfig, baseURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("short link repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.CodeLength <= 0 {
		return nil, fmt.Errorf("code length must be positive")
	}
	return &service{
		repo:    repo,
		cache:   store,
		logg:    logg,
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Resolve looks a code up in the authoritative store first, then in the
// cache, then in the legacy referral code registry. Codes not found anywhere
// resolve to a registration redirect with no referral context.
func (s *service) Resolve(ctx context.Context, code string) (*Resolution, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	link, err := s.repo.FindByCode(ctx, code)
	if err == nil {
		return s.resolutionFromModel(link), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Warn(s.logg.WithField(ctx, "code", code), "short link store lookup failed, trying cache")
	}

	if cached, cacheErr := s.cache.Get(ctx, s.cache.ShortLinkKey(code)); cacheErr == nil {
		var record cachedRecord
		if jsonErr := json.Unmarshal([]byte(cached), &record); jsonErr == nil {
			return resolutionFromCache(record), nil
		}
		s.logg.Warn(s.logg.WithField(ctx, "code", code), "discarding malformed cached short link")
	}

	if legacy, legacyErr := s.repo.FindReferralCodeByCode(ctx, code); legacyErr == nil {
		return &Resolution{
			Found:      true,
			Kind:       enums.ShortLinkKindReferral,
			ReferrerID: legacy.UserID.String(),
			RedirectTo: redirectRegistration,
		}, nil
	}

	return &Resolution{
		Found:      false,
		RedirectTo: redirectRegistration,
	}, nil
}

// CreateSharedCart generates a code pointing at a cart snapshot. The cache
// write is the durable fallback and always happens; the store write is best
// effort. Codes are not checked for collisions before use.
func (s *service) CreateSharedCart(ctx context.Context, ownerID uuid.UUID, items []types.LineItem) (*CreatedLink, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	code, err := security.GenerateShortCode(s.cfg.CodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}

	record := cachedRecord{
		Kind:        enums.ShortLinkKindSharedCart,
		OwnerUserID: ownerID.String(),
		Items:       items,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.writeCache(ctx, code, record); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode shared cart")
	}
	owner := ownerID
	if storeErr := s.repo.Create(ctx, &models.ShortLink{
		Code:        code,
		Kind:        enums.ShortLinkKindSharedCart,
		OwnerUserID: &owner,
		CartData:    types.RawJSON(payload),
	}); storeErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "code", code), "short link store write failed, cache copy retained")
	}

	return &CreatedLink{Code: code, URL: fmt.Sprintf("%s/s/%s", s.baseURL, code)}, nil
}

// CreateReferral returns the owner's referral link, generating and
// registering a code on first use.
func (s *service) CreateReferral(ctx context.Context, ownerID uuid.UUID) (*CreatedLink, error) {
	if existing, err := s.repo.FindReferralCodeByUser(ctx, ownerID); err == nil {
		return &CreatedLink{Code: existing.Code, URL: s.referralURL(existing.Code)}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Warn(s.logg.WithUserID(ctx, ownerID.String()), "referral code lookup failed, issuing a new code")
	}

	code, err := security.GenerateShortCode(s.cfg.CodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}

	record := cachedRecord{
		Kind:        enums.ShortLinkKindReferral,
		OwnerUserID: ownerID.String(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.writeCache(ctx, code, record); err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, s.cache.ReferralCodeKey(ownerID.String()), code, s.cfg.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, ownerID.String()), "referral code cache write failed")
	}

	if storeErr := s.repo.UpsertReferralCode(ctx, ownerID, code); storeErr != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, ownerID.String()), "referral code store write failed, cache copy retained")
	}

	return &CreatedLink{Code: code, URL: s.referralURL(code)}, nil
}

func (s *service) writeCache(ctx context.Context, code string, record cachedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode short link")
	}
	if err := s.cache.Set(ctx, s.cache.ShortLinkKey(code), string(payload), s.cfg.CacheTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache short link")
	}
	return nil
}

func (s *service) referralURL(code string) string {
	return fmt.Sprintf("%s/r/%s", s.baseURL, code)
}

func (s *service) resolutionFromModel(link *models.ShortLink) *Resolution {
	resolution := &Resolution{
		Found:      true,
		Kind:       link.Kind,
		RedirectTo: redirectRegistration,
	}
	if link.OwnerUserID != nil {
		resolution.ReferrerID = link.OwnerUserID.String()
	}

	if link.Kind == enums.ShortLinkKindSharedCart {
		resolution.RedirectTo = redirectSharedCart
		var record cachedRecord
		if err := json.Unmarshal(link.CartData, &record); err == nil {
			resolution.Items = record.Items
			if resolution.ReferrerID == "" {
				resolution.ReferrerID = record.OwnerUserID
			}
		}
	}
	return resolution
}

func resolutionFromCache(record cachedRecord) *Resolution {
	resolution := &Resolution{
		Found:      true,
		Kind:       record.Kind,
		ReferrerID: record.OwnerUserID,
		RedirectTo: redirectRegistration,
	}
	if record.Kind == enums.ShortLinkKindSharedCart {
		resolution.RedirectTo = redirectSharedCart
		resolution.Items = record.Items
	}
	return resolution
}
