package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/auth"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User), nextID: 1}
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[username]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.ID = f.nextID
	f.nextID++
	f.users[u.Username] = *u
	return nil
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthService(store, discardLogger())

	resp, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "alice", Password: "s3cret-pass", Role: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)

	stored := store.users["alice"]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash, "password must never be stored in plain text")
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "s3cret-pass"))

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRegister_UnknownRoleDegradesToUser(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore(), discardLogger())

	resp, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "bob", Password: "s3cret-pass", Role: "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := services.NewAuthService(newFakeUserStore(), discardLogger())

	_, err := svc.Register(context.Background(), services.RegisterInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), services.RegisterInput{Username: "alice", Password: "other-pass"})
	assert.ErrorIs(t, err, services.ErrUserExists)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := services.NewAuthService(store, discardLogger())

	_, err := svc.Register(context.Background(), services.RegisterInput{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), services.LoginInput{Username: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), services.LoginInput{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), services.LoginInput{Username: "mallory", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}
