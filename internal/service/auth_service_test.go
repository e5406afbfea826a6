package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examroom/examroom-backend/internal/config"
	"github.com/examroom/examroom-backend/internal/gateway"
	"github.com/examroom/examroom-backend/internal/model"
)

type fakeAccountStore struct {
	byEmail map[string]*model.Account
	nextID  int64
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{byEmail: make(map[string]*model.Account), nextID: 1}
}

func (f *fakeAccountStore) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountStore) Create(ctx context.Context, a *model.Account) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return gateway.ErrConflict
	}
	a.ID = f.nextID
	f.nextID++
	copied := *a
	f.byEmail[a.Email] = &copied
	return nil
}

func testAuthService() (*AuthService, *fakeAccountStore) {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // MinCost+, keeps the suite fast
	}
	store := newFakeAccountStore()
	return NewAuthService(cfg, store), store
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	signed, err := svc.Signup(ctx, "jane.doe@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, model.RoleStudent, signed.Account.Role)

	logged, err := svc.Login(ctx, "jane.doe@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, signed.Account.ID, logged.Account.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "jane.doe@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "jane.doe@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "jane.doe@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jane.doe@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := testAuthService()
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := testAuthService()

	account := &model.Account{ID: 42, Email: "jane.doe@example.com", Role: model.RoleInstructor}
	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "jane.doe@example.com", claims.Email)
	assert.Equal(t, model.RoleInstructor, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc, _ := testAuthService()
	other := NewAuthService(&config.Config{JWTSecret: "different", JWTExpiry: time.Hour, BcryptCost: 4}, newFakeAccountStore())

	token, err := other.GenerateToken(&model.Account{ID: 1, Email: "a@x.com", Role: model.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
