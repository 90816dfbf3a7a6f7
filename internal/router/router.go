package router

import (
	"todo-app/backend/internal/cache"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/handlers"
	"todo-app/backend/internal/middleware"
	"todo-app/backend/internal/monitoring"
	"todo-app/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New assembles the gin engine: middleware chain, CORS for the SPA
// frontend, and the full route table.
func New(cfg *config.Config, db *gorm.DB, redisCache *cache.RedisCache) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authService := services.NewAuthService(cfg)
	userService := services.NewUserService()
	taskService := services.NewTaskService(redisCache)

	authHandler := handlers.NewAuthHandler(db, authService)
	userHandler := handlers.NewUserHandler(db, userService, authService)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	healthHandler := handlers.NewHealthHandler(db, redisCache)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(cors.Default())
	r.Use(monitoring.MetricsMiddleware())

	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	// Each throttled endpoint gets its own window so hitting the register
	// limit never locks login out.
	authLimiter := func() gin.HandlerFunc {
		return middleware.AuthRateLimiter(
			cfg.RateLimit.AuthMaxRequests,
			cfg.RateLimit.AuthWindow,
		)
	}
	requireAuth := middleware.AuthMiddleware(authService)

	r.GET("/", healthHandler.Root)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", monitoring.MetricsHandler)

	user := r.Group("/user")
	{
		user.POST("/register", authLimiter(), authHandler.Register)
		user.POST("/login", authLimiter(), authHandler.Login)

		user.GET("/me", requireAuth, userHandler.Me)
		user.PUT("/profile", requireAuth, userHandler.UpdateProfile)
		user.PUT("/password", requireAuth, authLimiter(), userHandler.ChangePassword)
	}

	tasks := r.Group("/tasks", requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.GetTasks)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
		tasks.PATCH("/:id/toggle", taskHandler.ToggleComplete)
	}

	return r
}
