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

type UserHandler struct {
	db          *gorm.DB
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(db *gorm.DB, userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{db: db, userService: userService, authService: authService}
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserProfile(h.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		log.Printf("profile lookup failed: %v", err)
		serverError(c, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		badRequest(c, "Name and email are required")
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

	user, err := h.userService.UpdateProfile(h.db, userID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "Email already used by another account",
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		log.Printf("profile update failed: %v", err)
		serverError(c, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		badRequest(c, "Current password and new password are required")
		return
	}

	if res := validation.ValidatePassword(req.NewPassword); !res.Valid {
		badRequest(c, res.Errors[0])
		return
	}

	if req.CurrentPassword == req.NewPassword {
		badRequest(c, "New password must be different from current password")
		return
	}

	err := h.authService.ChangePassword(h.db, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Current password incorrect",
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		log.Printf("password change failed: %v", err)
		serverError(c, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}
