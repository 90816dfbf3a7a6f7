package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name     string    `json:"name" gorm:"not null"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null"`
	Password string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:OwnerID"`
}

// PublicUser is the shape returned to clients: never includes the digest.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
