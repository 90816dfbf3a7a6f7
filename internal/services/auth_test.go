package services_test

import (
	"testing"
	"time"

	"todo-app/backend/internal/config"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func newAuthService() *services.AuthServiceImpl {
	return services.NewAuthService(&config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BCryptCost: bcrypt.MinCost,
		},
	})
}

func TestRegisterThenLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	user, token, err := svc.RegisterUser(db, "Ann", "Ann@X.com", "Abcdef12")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email, "email should be stored lowercased")

	loggedIn, loginToken, err := svc.LoginUser(db, "ann@x.com", "Abcdef12")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	_, _, err := svc.RegisterUser(db, "Ann", "ann@x.com", "Abcdef12")
	require.NoError(t, err)

	_, _, err = svc.RegisterUser(db, "Other", "ANN@X.COM", "Abcdef12")
	assert.ErrorIs(t, err, services.ErrEmailTaken, "case-variant duplicate must be rejected")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "no second user record may exist")
}

func TestLoginFailuresAreUniform(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	_, _, err := svc.RegisterUser(db, "Ann", "ann@x.com", "Abcdef12")
	require.NoError(t, err)

	_, _, wrongPassword := svc.LoginUser(db, "ann@x.com", "WrongPass1")
	_, _, noSuchUser := svc.LoginUser(db, "nobody@x.com", "Abcdef12")

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, noSuchUser, services.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	user, _, err := svc.RegisterUser(db, "Ann", "ann@x.com", "Abcdef12")
	require.NoError(t, err)

	err = svc.ChangePassword(db, user.ID, "WrongPass1", "Newpass99")
	assert.ErrorIs(t, err, services.ErrWrongPassword)

	err = svc.ChangePassword(db, user.ID, "Abcdef12", "Newpass99")
	require.NoError(t, err)

	_, _, err = svc.LoginUser(db, "ann@x.com", "Abcdef12")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials, "old password must stop working")

	_, _, err = svc.LoginUser(db, "ann@x.com", "Newpass99")
	assert.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService()

	user, token, err := svc.RegisterUser(db, "Ann", "ann@x.com", "Abcdef12")
	require.NoError(t, err)

	parsed, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)
}

func TestParseTokenFailsClosed(t *testing.T) {
	svc := newAuthService()

	_, err := svc.ParseToken("not.a.token")
	assert.Error(t, err)

	expired := services.NewAuthService(&config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   -time.Minute,
			BCryptCost: bcrypt.MinCost,
		},
	})
	token, err := expired.GenerateToken(mustUUID(t))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err, "expired token must be rejected")

	other := services.NewAuthService(&config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "different-secret",
			TokenTTL:   time.Hour,
			BCryptCost: bcrypt.MinCost,
		},
	})
	token, err = other.GenerateToken(mustUUID(t))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err, "token signed with another secret must be rejected")
}
