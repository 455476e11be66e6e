package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendaref/tiendaref-backend/internal/referrals"
	"github.com/tiendaref/tiendaref-backend/internal/shortlinks"
	pkgAuth "github.com/tiendaref/tiendaref-backend/pkg/auth"
	"github.com/tiendaref/tiendaref-backend/pkg/config"
	"github.com/tiendaref/tiendaref-backend/pkg/db/models"
	"github.com/tiendaref/tiendaref-backend/pkg/enums"
	pkgerrors "github.com/tiendaref/tiendaref-backend/pkg/errors"
	"github.com/tiendaref/tiendaref-backend/pkg/logger"
	"github.com/tiendaref/tiendaref-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeResolver struct {
	byCode map[string]*shortlinks.Resolution
}

func (f *fakeResolver) Resolve(ctx context.Context, code string) (*shortlinks.Resolution, error) {
	if resolution, ok := f.byCode[code]; ok {
		return resolution, nil
	}
	return &shortlinks.Resolution{Found: false}, nil
}

type fakeRecorder struct {
	sessions map[string]string
}

func (f *fakeRecorder) Record(ctx context.Context, sessionID, referrerID, source string) (*referrals.Attribution, error) {
	if f.sessions == nil {
		f.sessions = map[string]string{}
	}
	f.sessions[sessionID] = referrerID
	return &referrals.Attribution{ReferrerID: referrerID, Source: source}, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "tiendaref-test", ExpirationMinutes: 60}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
}

func testService(t *testing.T) (Service, *fakeUserRepo, *fakeResolver, *fakeRecorder) {
	t.Helper()
	repo := newFakeUserRepo()
	resolver := &fakeResolver{byCode: map[string]*shortlinks.Resolution{}}
	recorder := &fakeRecorder{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		LinkResolver:   resolver,
		Referrals:      recorder,
		Logger:         logger.New(logger.Options{Output: io.Discard}),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo, resolver, recorder
}

func TestRegisterCreatesUserWithClassifiedZone(t *testing.T) {
	svc, repo, _, _ := testService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Maria@Example.com",
		Password: "hunter2hunter2",
		Name:     "María",
		City:     "Buenos Aires",
		State:    "Buenos Aires",
		Country:  "Argentina",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if resp.User.Role != enums.UserRoleCliente {
		t.Fatalf("role = %q, want cliente", resp.User.Role)
	}

	stored := repo.byEmail["maria@example.com"]
	if stored == nil {
		t.Fatal("user not stored under lowercased email")
	}
	if stored.Zone == nil || *stored.Zone != string(enums.ShippingZoneLocal) {
		t.Fatalf("zone = %v, want local", stored.Zone)
	}
	if stored.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if ok, err := security.VerifyPassword("hunter2hunter2", stored.PasswordHash); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != stored.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID, stored.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _, _ := testService(t)
	repo.byEmail["taken@example.com"] = &models.User{ID: uuid.New(), Email: "taken@example.com"}

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
		Name:     "Dup",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _, _ := testService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "root@example.com",
		Password: "hunter2hunter2",
		Name:     "Root",
		Role:     "admin",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRegisterAttributesReferral(t *testing.T) {
	svc, _, resolver, recorder := testService(t)
	resolver.byCode["AB12CD"] = &shortlinks.Resolution{
		Found:      true,
		Kind:       enums.ShortLinkKindReferral,
		ReferrerID: "referrer-1",
	}

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:        "nuevo@example.com",
		Password:     "hunter2hunter2",
		Name:         "Nuevo",
		SessionID:    "sess-9",
		ReferralCode: "AB12CD",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if recorder.sessions["sess-9"] != "referrer-1" {
		t.Fatalf("attribution = %q, want referrer-1", recorder.sessions["sess-9"])
	}
}

func TestRegisterIgnoresUnknownReferralCode(t *testing.T) {
	svc, _, _, recorder := testService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:        "nuevo@example.com",
		Password:     "hunter2hunter2",
		Name:         "Nuevo",
		SessionID:    "sess-9",
		ReferralCode: "NOPE99",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(recorder.sessions) != 0 {
		t.Fatalf("expected no attribution, got %v", recorder.sessions)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, repo, _, _ := testService(t)

	hash, err := security.HashPassword("correct-horse", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	repo.byEmail["ana@example.com"] = &models.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: hash,
		Name:         "Ana",
		Role:         enums.UserRoleEmbajador,
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User.Role != enums.UserRoleEmbajador {
		t.Fatalf("role = %q, want embajador", resp.User.Role)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}
