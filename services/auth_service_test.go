package services

import (
	"testing"

	"novelbranch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = r.store.id()
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if user, ok := r.store.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	service := NewAuthService(&fakeUserRepo{store: newFakeStore()})

	resp, err := service.Register(models.RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada", resp.User.Username)
	assert.True(t, resp.User.IsActive)

	login, err := service.Login(models.LoginRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service := NewAuthService(&fakeUserRepo{store: newFakeStore()})

	_, err := service.Register(models.RegisterRequest{Username: "ada", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Register(models.RegisterRequest{Username: "ada", Email: "b@example.com", Password: "password123"})
	assert.IsType(t, models.ErrorConflict{}, err)

	_, err = service.Register(models.RegisterRequest{Username: "lovelace", Email: "a@example.com", Password: "password123"})
	assert.IsType(t, models.ErrorConflict{}, err)
}

func TestLoginWrongPassword(t *testing.T) {
	service := NewAuthService(&fakeUserRepo{store: newFakeStore()})

	_, err := service.Register(models.RegisterRequest{Username: "ada", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Login(models.LoginRequest{Username: "ada", Password: "wrong"})
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	_, err = service.Login(models.LoginRequest{Username: "nobody", Password: "password123"})
	assert.IsType(t, models.ErrorUnauthorized{}, err)
}
