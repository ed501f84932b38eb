package auth

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/utils"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.GoogleUser{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(db, log, "test-secret", "test-client-id")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "buyer@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.NotEqual(t, "s3cretpass", user.Password)

	_, err = svc.Register(ctx, "buyer@example.com", "otherpass")
	assert.ErrorIs(t, err, ErrEmailTaken)

	result, err := svc.Login(ctx, "buyer@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := utils.ParseToken([]byte("test-secret"), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserId)
	assert.Equal(t, string(models.UserRoleUser), claims.Role)

	_, err = svc.Login(ctx, "buyer@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "buyer@example.com", "s3cretpass")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrongpass", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cretpass", "newpassword"))

	_, err = svc.Login(ctx, "buyer@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := svc.Login(ctx, "buyer@example.com", "newpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}
