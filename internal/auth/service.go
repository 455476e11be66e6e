package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/internal/geo"
	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	"github.com/tiendaref/tiendaref-backend/internal/users"
	pkgAuth "github.com/tiendaref/tiendaref-backend/pkg/auth"
	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type linkResolver interface {
	Resolve(ctx context.Context, code string) (*shortlinks.Resolution, error)
}

type attributionRecorder interface {
	Record(ctx context.Context, sessionID, referrerID, source string) (*referrals.Attribution, error)
}

type service struct {
	users       userRepository
	links       linkResolver
	referrals   attributionRecorder
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	LinkResolver   linkResolver
	Referrals      attributionRecorder
	Logger         *logger.Logger
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs the registration and login service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.LinkResolver == nil {
		return nil, fmt.Errorf("link resolver is required")
	}
	if params.Referrals == nil {
		return nil, fmt.Errorf("referrals recorder is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:       params.UserRepo,
		links:       params.LinkResolver,
		referrals:   params.Referrals,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the account, classifies its shipping zone from the
// provided address, and attributes the referral code when one accompanied
// the signup.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role := enums.UserRoleCliente
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := enums.ParseUserRole(req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		if parsed == enums.UserRoleAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot self-register as admin")
		}
		role = parsed
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
	}
	applyAddress(user, req)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.attributeReferral(ctx, req, user)

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: token, User: users.FromModel(user)}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: token, User: users.FromModel(user)}, nil
}

func (s *service) mintToken(user *models.User) (string, error) {
	payload := pkgAuth.AccessTokenPayload{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

// attributeReferral ties the fresh account's session to the referral code's
// owner. Failures are logged rather than surfaced; a broken referral link
// never blocks registration.
func (s *service) attributeReferral(ctx context.Context, req RegisterRequest, user *models.User) {
	code := strings.TrimSpace(req.ReferralCode)
	sessionID := strings.TrimSpace(req.SessionID)
	if code == "" || sessionID == "" {
		return
	}

	resolution, err := s.links.Resolve(ctx, code)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "code", code), "referral code resolve failed, skipping attribution")
		return
	}
	if !resolution.Found || resolution.Kind != enums.ShortLinkKindReferral || resolution.ReferrerID == "" {
		return
	}
	if resolution.ReferrerID == user.ID.String() {
		return
	}

	if _, err := s.referrals.Record(ctx, sessionID, resolution.ReferrerID, "referral"); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "code", code), "referral attribution write failed")
	}
}

func applyAddress(user *models.User, req RegisterRequest) {
	assign := func(value string) *string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}

	user.AddressLine = assign(req.AddressLine)
	user.City = assign(req.City)
	user.State = assign(req.State)
	user.Country = assign(req.Country)
	user.PostalCode = assign(req.PostalCode)

	if user.City != nil || user.State != nil || user.Country != nil {
		zone := string(geo.ClassifyBuyer(req.City, req.State, req.Country))
		user.Zone = &zone
	}
}
