package services

import (
	"fmt"
	"log"
	"time"

	"todo-app/backend/internal/cache"
	"todo-app/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task) (*models.Task, error)
	GetTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (*models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, updates map[string]interface{}) (*models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error
	ToggleComplete(db *gorm.DB, ownerID, taskID uuid.UUID) (*models.Task, error)
}

// TaskServiceImpl scopes every read and write by owner. The cache is
// optional; with a nil cache every call goes straight to the database.
type TaskServiceImpl struct {
	cache    *cache.RedisCache
	cacheTTL time.Duration
}

func NewTaskService(c *cache.RedisCache) *TaskServiceImpl {
	return &TaskServiceImpl{cache: c, cacheTTL: 5 * time.Minute}
}

func ownerTasksKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:owner:%s", ownerID)
}

// loadOwned fetches a task only if it belongs to ownerID. A task owned
// by someone else surfaces as gorm.ErrRecordNotFound, identical to a
// task that does not exist.
func loadOwned(db *gorm.DB, ownerID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) invalidate(ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ownerTasksKey(ownerID)); err != nil {
		log.Printf("task cache invalidation failed for %s: %v", ownerID, err)
	}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) (*models.Task, error) {
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	s.invalidate(task.OwnerID)
	return &task, nil
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	if s.cache != nil {
		var cached []models.Task
		if err := s.cache.Get(ownerTasksKey(ownerID), &cached); err == nil {
			return cached, nil
		}
	}

	var tasks []models.Task
	if err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ownerTasksKey(ownerID), tasks, s.cacheTTL); err != nil {
			log.Printf("task cache fill failed for %s: %v", ownerID, err)
		}
	}

	return tasks, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (*models.Task, error) {
	return loadOwned(db, ownerID, taskID)
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, updates map[string]interface{}) (*models.Task, error) {
	task, err := loadOwned(db, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.invalidate(ownerID)
	return loadOwned(db, ownerID, taskID)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	task, err := loadOwned(db, ownerID, taskID)
	if err != nil {
		return err
	}

	if err := db.Delete(task).Error; err != nil {
		return err
	}

	s.invalidate(ownerID)
	return nil
}

func (s *TaskServiceImpl) ToggleComplete(db *gorm.DB, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := loadOwned(db, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(task).Update("completed", !task.Completed).Error; err != nil {
		return nil, err
	}

	s.invalidate(ownerID)
	return task, nil
}
