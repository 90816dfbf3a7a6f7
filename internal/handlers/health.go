package handlers

import (
	"net/http"

	"todo-app/backend/internal/cache"
	"todo-app/backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewHealthHandler(db *gorm.DB, c *cache.RedisCache) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "API WORKING")
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := repositories.Ping(h.db); err != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	if h.cache != nil {
		if err := h.cache.Health(); err != nil {
			checks["redis"] = "down"
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success": healthy,
		"checks":  checks,
	})
}
