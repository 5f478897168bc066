// File: handlers/user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userRepo "tutorhive/database/repository/user"
	userSvc "tutorhive/services/user"
	"tutorhive/utils"
)

// UserHandler serves registration, login and account updates.
type UserHandler struct {
	Service userSvc.UserService
	Repo    userRepo.UserRepository
	Logger  *zap.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc userSvc.UserService, repo userRepo.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{Service: svc, Repo: repo, Logger: logger}
}

// RegisterHandler handles POST /api/users/register.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req struct {
		Email      string  `json:"email" binding:"required,email"`
		Password   string  `json:"password" binding:"required,min=8"`
		Name       string  `json:"name" binding:"required"`
		Role       string  `json:"role" binding:"required"`
		TimeZone   string  `json:"timeZone"`
		HourlyRate float64 `json:"hourlyRate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	user, err := h.Service.Register(c.Request.Context(), userSvc.RegisterRequest{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Role:       req.Role,
		TimeZone:   req.TimeZone,
		HourlyRate: req.HourlyRate,
	})
	if errors.Is(err, userSvc.ErrEmailTaken) {
		utils.JSONError(c, http.StatusBadRequest, "Conflict", err.Error())
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Registration failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// LoginHandler handles POST /api/users/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	token, user, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, userSvc.ErrInvalidCredentials) {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// UpdateFCMTokenHandler handles PUT /api/users/fcm-token so clients can
// register for the offline push fallback.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if err := h.Repo.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
