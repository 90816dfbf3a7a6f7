package services

import (
	"errors"
	"strings"
	"time"

	"todo-app/backend/internal/config"
	"todo-app/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	RegisterUser(db *gorm.DB, name, email, password string) (*models.User, string, error)
	LoginUser(db *gorm.DB, email, password string) (*models.User, string, error)
	ChangePassword(db *gorm.DB, userID uuid.UUID, currentPassword, newPassword string) error
	GenerateToken(userID uuid.UUID) (string, error)
	ParseToken(tokenStr string) (uuid.UUID, error)
}

type AuthServiceImpl struct {
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		secret:     []byte(cfg.Auth.JWTSecret),
		tokenTTL:   cfg.Auth.TokenTTL,
		bcryptCost: cfg.Auth.BCryptCost,
	}
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// RegisterUser creates an account and returns it together with a fresh
// session token. Emails are stored lowercased so the unique index also
// catches case-variant duplicates. The pre-check below is best effort;
// the index is what actually guarantees uniqueness under concurrent
// registration.
func (s *AuthServiceImpl) RegisterUser(db *gorm.DB, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// LoginUser verifies credentials and issues a session token. Lookup
// failure and digest mismatch are deliberately indistinguishable.
func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !VerifyPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// ChangePassword re-hashes and persists the new password after the
// caller proves knowledge of the current one.
func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID uuid.UUID, currentPassword, newPassword string) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	if !VerifyPassword(user.Password, currentPassword) {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	return db.Model(&user).Update("password", string(hashed)).Error
}

// GenerateToken signs a session token carrying the user id as its sole
// claim, expiring after the configured window.
func (s *AuthServiceImpl) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a session token and extracts the user id.
// Expired, malformed or wrongly signed tokens all fail closed.
func (s *AuthServiceImpl) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenExpired
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.FromString(idStr)
	if err != nil {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return userID, nil
}
