package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorizabiblia/memoriza-api/pkg/util"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) CreateUser(ctx context.Context, user User) (*User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, ErrUserAlreadyExists
	}
	u := user
	u.ID = "id-" + user.Email
	f.users[user.Email] = &u
	return &u, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.DisplayName = displayName
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeRepo) UpdateUserPassword(ctx context.Context, id, hashed string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.Password = hashed
			return nil
		}
	}
	return ErrUserNotFound
}

func TestRegisterHashesPasswordAndLogsIn(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "kid@example.com",
		Password:    "segredo123",
		DisplayName: "Aninha",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.Token, "register auto-logs-in")
	assert.Empty(t, user.Password, "password never leaves the service")

	stored := repo.users["kid@example.com"]
	assert.NotEqual(t, "segredo123", stored.Password, "stored password must be hashed")
	assert.NoError(t, util.ComparePasswordBcrypt(stored.Password, "segredo123"))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeRepo(), nil)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "12345"})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPasswordAndUnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "kid@example.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ghost@example.com", "segredo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown users look like bad credentials")
}

func TestLoginIssuesValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	registered, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "kid@example.com", "segredo123")
	require.NoError(t, err)

	claims, err := util.ValidateJWT(user.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.AccountID)
	assert.Equal(t, "kid@example.com", claims.Email)
}

func TestUpdateProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	user, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		DisplayName: "Aninha",
		NewPassword: "novasenha",
	}))

	_, err = svc.Login(context.Background(), "kid@example.com", "novasenha")
	require.NoError(t, err)

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aninha", got.DisplayName)
	assert.Empty(t, got.Password)
}

func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newFakeRepo()
	svc := NewAuthService(repo, nil)

	user, err := svc.Register(context.Background(), RegisterRequest{Email: "kid@example.com", Password: "segredo123"})
	require.NoError(t, err)

	err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{NewPassword: "123"})
	assert.Error(t, err)
}
