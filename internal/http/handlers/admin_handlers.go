package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/domain"
)

// AdminHandlers handles KYC review endpoints for admin users
type AdminHandlers struct {
	accountRepo domain.AccountRepository
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(accountRepo domain.AccountRepository) *AdminHandlers {
	return &AdminHandlers{accountRepo: accountRepo}
}

// KYCUpdateRequest represents a KYC review decision
type KYCUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
}

// ListPendingKYC returns accounts awaiting KYC review
func (h *AdminHandlers) ListPendingKYC(c *gin.Context) {
	accounts, err := h.accountRepo.ListByKYCStatus(c.Request.Context(), domain.KYCPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	body := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		body = append(body, accountBody(&accounts[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": body})
}

// UpdateKYC records a KYC review decision for an account
func (h *AdminHandlers) UpdateKYC(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var req KYCUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountRepo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find account"})
		return
	}

	account.KYCStatus = req.Status
	if err := h.accountRepo.Update(c.Request.Context(), account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	reviewer, _ := c.Get("account_id")
	log.Printf("KYC_REVIEWED: account_id=%d status=%s reviewer=%v timestamp=%s",
		account.ID, req.Status, reviewer, time.Now().UTC().Format(time.RFC3339))

	c.JSON(http.StatusOK, gin.H{"data": accountBody(account)})
}
