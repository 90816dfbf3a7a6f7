package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

type CreateTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     string      `json:"dueDate"`
	Completed   interface{} `json:"completed"`
}

// UpdateTaskRequest uses pointers so an absent field and an explicit
// zero value can be told apart during the partial merge.
type UpdateTaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Priority    *string     `json:"priority"`
	DueDate     *string     `json:"dueDate"`
	Completed   interface{} `json:"completed"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if res := validation.ValidateTaskTitle(req.Title); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}
	if res := validation.ValidateTaskDescription(req.Description); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}
	if res := validation.ValidatePriority(req.Priority); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := validation.ParseDueDate(req.DueDate)
		if err != nil {
			badRequest(c, "Invalid due date format")
			return
		}
		if res := validation.ValidateDueDate(parsed, time.Now()); !res.Valid {
			badRequest(c, res.Errors[0])
			return
		}
		dueDate = &parsed
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityLow
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		DueDate:     dueDate,
		Completed:   validation.NormalizeCompleted(req.Completed),
	}

	created, err := h.taskService.CreateTask(h.db, task)
	if err != nil {
		log.Printf("task create failed: %v", err)
		serverError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    created,
	})
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasks(h.db, userID)
	if err != nil {
		log.Printf("task list failed: %v", err)
		serverError(c, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
	})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := uuid.FromStringOrNil(c.Param("id"))

	task, err := h.taskService.GetTaskByID(h.db, userID, taskID)
	if err != nil {
		h.taskError(c, err, "Task not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := uuid.FromStringOrNil(c.Param("id"))

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		if res := validation.ValidateTaskTitle(*req.Title); !res.Valid {
			badRequest(c, res.Errors[0])
			return
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if res := validation.ValidateTaskDescription(*req.Description); !res.Valid {
			badRequest(c, res.Errors[0])
			return
		}
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		if res := validation.ValidatePriority(*req.Priority); !res.Valid {
			badRequest(c, res.Errors[0])
			return
		}
		if *req.Priority != "" {
			updates["priority"] = *req.Priority
		}
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			updates["due_date"] = nil
		} else {
			parsed, err := validation.ParseDueDate(*req.DueDate)
			if err != nil {
				badRequest(c, "Invalid due date format")
				return
			}
			if res := validation.ValidateDueDate(parsed, time.Now()); !res.Valid {
				badRequest(c, res.Errors[0])
				return
			}
			updates["due_date"] = parsed
		}
	}
	if req.Completed != nil {
		updates["completed"] = validation.NormalizeCompleted(req.Completed)
	}

	task, err := h.taskService.UpdateTask(h.db, userID, taskID, updates)
	if err != nil {
		h.taskError(c, err, "Task not found or not yours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := uuid.FromStringOrNil(c.Param("id"))

	if err := h.taskService.DeleteTask(h.db, userID, taskID); err != nil {
		h.taskError(c, err, "Task not found or not yours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
	})
}

func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID := uuid.FromStringOrNil(c.Param("id"))

	task, err := h.taskService.ToggleComplete(h.db, userID, taskID)
	if err != nil {
		h.taskError(c, err, "Task not found or not yours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
	})
}

// taskError maps a missing or non-owned task to the same 404 so a caller
// cannot probe for other users' task ids.
func (h *TaskHandler) taskError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFoundMsg,
		})
		return
	}
	log.Printf("task request failed: %v", err)
	serverError(c, "Server error")
}
