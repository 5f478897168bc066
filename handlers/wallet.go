// File: handlers/wallet.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/services/payment"
	"tutorhive/utils"
)

// WalletHandler serves wallet reads and top-ups.
type WalletHandler struct {
	Wallets walletRepo.WalletRepository
	TopUps  payment.TopUpService
	Logger  *zap.Logger
}

// NewWalletHandler constructs a WalletHandler.
func NewWalletHandler(wallets walletRepo.WalletRepository, topUps payment.TopUpService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{Wallets: wallets, TopUps: topUps, Logger: logger}
}

// GetWalletHandler handles GET /api/wallet (role: student).
func (h *WalletHandler) GetWalletHandler(c *gin.Context) {
	studentID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	wallet, err := h.Wallets.GetByStudentID(c.Request.Context(), studentID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(c, http.StatusNotFound, "Not found", "wallet not found")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// CreateTopUpHandler handles POST /api/wallet/top-up: creates a payment
// intent for the requested amount and returns its client secret.
func (h *WalletHandler) CreateTopUpHandler(c *gin.Context) {
	studentID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Amount   int64  `json:"amount" binding:"required"`
		Currency string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	secret, err := h.TopUps.CreateIntent(c.Request.Context(), studentID, req.Amount, req.Currency)
	if err != nil {
		h.Logger.Error("top-up intent creation failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "External service failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

// ConfirmTopUpHandler handles POST /api/wallet/top-up/confirm: verifies a
// succeeded intent and credits the wallet.
func (h *WalletHandler) ConfirmTopUpHandler(c *gin.Context) {
	studentID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		IntentID string `json:"intentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	points, err := h.TopUps.Confirm(c.Request.Context(), studentID, req.IntentID)
	if errors.Is(err, payment.ErrIntentNotSucceeded) {
		utils.JSONError(c, http.StatusBadRequest, "Payment not completed", err.Error())
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"creditedPoints": points})
}
