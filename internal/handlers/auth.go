package handlers

import (
	"errors"
	"log"
	"net/http"

	"todo-app/backend/internal/services"
	"todo-app/backend/internal/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService) *AuthHandler {
	return &AuthHandler{db: db, authService: authService}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		badRequest(c, "All fields are required")
		return
	}

	if res := validation.ValidateName(req.Name); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}
	if res := validation.ValidateEmail(req.Email); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}
	if res := validation.ValidatePassword(req.Password); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}

	user, token, err := h.authService.RegisterUser(h.db, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Email already registered",
			})
			return
		}
		log.Printf("registration failed: %v", err)
		serverError(c, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}

	if res := validation.ValidateEmail(req.Email); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}
	if len(req.Password) < 8 {
		badRequest(c, "Password must be at least 8 characters")
		return
	}

	user, token, err := h.authService.LoginUser(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid credentials",
			})
			return
		}
		log.Printf("login failed: %v", err)
		serverError(c, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}
