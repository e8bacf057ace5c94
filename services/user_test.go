package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/utils"
)

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, []byte("secret"), newTestLogger())
	ctx := context.Background()

	var captured *models.User
	users.On("Insert", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*models.User)
			captured.ID = primitive.NewObjectID()
		}).
		Return(nil)

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	require.NotNil(t, captured)
	assert.NotEqual(t, "correct horse battery", captured.Password)
	assert.True(t, utils.CheckPassword(captured.Password, "correct horse battery"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, []byte("secret"), newTestLogger())
	ctx := context.Background()

	users.On("Insert", ctx, mock.AnythingOfType("*models.User")).
		Return(apperrors.Conflict("duplicate key"))

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse battery")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, []byte("secret"), newTestLogger())
	ctx := context.Background()

	hashed, err := utils.HashPassword("right password")
	require.NoError(t, err)
	users.On("FindByEmail", ctx, "ada@example.com").Return(&models.User{
		ID:       primitive.NewObjectID(),
		Email:    "ada@example.com",
		Password: hashed,
		Role:     models.RoleUser,
	}, nil)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginUnknownEmailFailsLikeWrongPassword(t *testing.T) {
	users := new(mockUserRepository)
	svc := NewUserService(users, []byte("secret"), newTestLogger())
	ctx := context.Background()

	users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, notFoundErr())

	_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginIssuesParseableToken(t *testing.T) {
	users := new(mockUserRepository)
	secret := []byte("secret")
	svc := NewUserService(users, secret, newTestLogger())
	ctx := context.Background()

	hashed, err := utils.HashPassword("right password")
	require.NoError(t, err)
	userID := primitive.NewObjectID()
	users.On("FindByEmail", ctx, "ada@example.com").Return(&models.User{
		ID:       userID,
		Email:    "ada@example.com",
		Password: hashed,
		Role:     models.RoleAdmin,
	}, nil)

	token, user, err := svc.Login(ctx, "ada@example.com", "right password")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	claims, err := utils.ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
