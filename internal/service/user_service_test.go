package service

import (
	"context"
	"testing"

	"go-parts-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{UserID: uuid.NewString(), Role: model.RoleAdmin}
	req := &CreateUserRequest{
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		Building:  1,
		Role:      model.RoleTech,
	}

	t.Run("success", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, req.Email).Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := NewUserService(users).CreateUser(ctx, admin, req)

		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.True(t, user.CheckPassword("secret123"))
		assert.Equal(t, admin.UserID, user.CreatedBy)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, req.Email).Return(&model.User{Email: req.Email}, nil)

		_, err := NewUserService(users).CreateUser(ctx, admin, req)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("bad role", func(t *testing.T) {
		bad := *req
		bad.Role = "manager"
		_, err := NewUserService(new(MockUserRepository)).CreateUser(ctx, admin, &bad)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{UserID: uuid.NewString(), Role: model.RoleAdmin}
	user := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, FirstName: "Old", Role: model.RoleTech, IsActive: true}

	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	inactive := false
	updated, err := NewUserService(users).UpdateUser(ctx, admin, user.ID.String(), &UpdateUserRequest{
		FirstName: "New",
		Building:  5,
		Role:      model.RoleInventory,
		IsActive:  &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, 5, updated.Building)
	assert.False(t, updated.IsActive)
	assert.Equal(t, admin.UserID, updated.UpdatedBy)
}

func TestGetUserByID(t *testing.T) {
	users := new(MockUserRepository)
	missing := uuid.New()
	users.On("FindByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(users)

	_, err := svc.GetUserByID(context.Background(), missing.String())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUserByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	users := new(MockUserRepository)
	user := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Email: "a@example.com"}
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)
	svc := NewUserService(users)

	require.NoError(t, svc.ResetPassword(context.Background(), "a@example.com", "brand-new"))
	assert.True(t, user.CheckPassword("brand-new"))

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "a@example.com", "123"), ErrInvalidRequest)
}
