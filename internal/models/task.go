package models

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerID     uuid.UUID  `json:"owner" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"default:''"`
	Priority    string     `json:"priority" gorm:"not null;default:'Low'"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
