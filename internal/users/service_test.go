package users

import (
	"context"
	"strings"
	"testing"

	"github.com/freelancehub/freelancehub-backend/pkg/auth"
	"github.com/freelancehub/freelancehub-backend/pkg/config"
	"github.com/freelancehub/freelancehub-backend/pkg/db/models"
	pkgerrors "github.com/freelancehub/freelancehub-backend/pkg/errors"
	"github.com/freelancehub/freelancehub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn         func(ctx context.Context, user *models.User) error
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*models.User, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, user *models.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.findByUsernameFn(ctx, username)
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func testPasswordCfg() config.PasswordConfig {
	// Small parameters keep hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTCfg() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "freelancehub-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		PasswordCfg: testPasswordCfg(),
		JWTCfg:      testJWTCfg(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	var created *models.User
	repo := &fakeRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(t, repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username:     "  maya  ",
		Email:        "  Maya@Example.COM ",
		Password:     "hunter2!",
		IsFreelancer: true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "maya" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if user.Email != "maya@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if !user.IsFreelancer {
		t.Fatal("expected freelancer flag preserved")
	}
	if created.PasswordHash == "" || strings.Contains(created.PasswordHash, "hunter2!") {
		t.Fatalf("expected hashed password, got %q", created.PasswordHash)
	}
	ok, err := security.VerifyPassword("hunter2!", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	cases := []RegisterInput{
		{Email: "a@b.c", Password: "pw"},
		{Username: "a", Password: "pw"},
		{Username: "a", Email: "a@b.c"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		assertCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestRegisterDuplicateMapsToConflict(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			return gorm.ErrDuplicatedKey
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "maya",
		Email:    "maya@example.com",
		Password: "hunter2!",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginSuccessMintsToken(t *testing.T) {
	cfg := testPasswordCfg()
	hash, err := security.HashPassword("hunter2!", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     "maya",
		PasswordHash: hash,
		IsFreelancer: true,
	}
	repo := &fakeRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return user, nil
		},
	}
	svc := newTestService(t, repo)

	result, err := svc.Login(context.Background(), LoginInput{Username: "maya", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected access token")
	}
	claims, err := auth.ParseAccessToken(testJWTCfg(), result.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "maya" || !claims.IsFreelancer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginUnknownUserAndBadPasswordLookAlike(t *testing.T) {
	cfg := testPasswordCfg()
	hash, err := security.HashPassword("correct", cfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	repo := &fakeRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			if username == "known" {
				return &models.User{ID: uuid.New(), Username: "known", PasswordHash: hash}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo)

	_, unknownErr := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})
	assertCode(t, unknownErr, pkgerrors.CodeUnauthorized)

	_, badPwErr := svc.Login(context.Background(), LoginInput{Username: "known", Password: "wrong"})
	assertCode(t, badPwErr, pkgerrors.CodeUnauthorized)

	if unknownErr.Error() != badPwErr.Error() {
		t.Fatalf("expected identical messages, got %q vs %q", unknownErr, badPwErr)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
