package services

import (
	"errors"
	"strings"

	"todo-app/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetUserProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error)
	UpdateProfile(db *gorm.DB, userID uuid.UUID, name, email string) (*models.User, error)
}

type UserServiceImpl struct{}

func NewUserService() *UserServiceImpl {
	return &UserServiceImpl{}
}

func (s *UserServiceImpl) GetUserProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes name and email. Email uniqueness is re-checked
// excluding the user's own record.
func (s *UserServiceImpl) UpdateProfile(db *gorm.DB, userID uuid.UUID, name, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var other models.User
	err := db.Where("email = ? AND id <> ?", email, userID).First(&other).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":  strings.TrimSpace(name),
		"email": email,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}
