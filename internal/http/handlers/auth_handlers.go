package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RequestCodeRequest represents an SMS code request
type RequestCodeRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// ConfirmCodeRequest represents an SMS code confirmation
type ConfirmCodeRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	PhoneNumber       string `json:"phone_number" binding:"required"`
	Password          string `json:"password" binding:"required,len=6,numeric"`
	DisplayName       string `json:"display_name" binding:"required,max=100"`
	VerificationToken string `json:"verification_token,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// RequestCode handles SMS verification code requests
func (h *AuthHandlers) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.authSvc.RequestCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": message,
		},
	})
}

// ConfirmCode handles SMS verification code confirmation
func (h *AuthHandlers) ConfirmCode(c *gin.Context) {
	var req ConfirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authSvc.ConfirmCode(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":            "phone number verified",
			"verification_token": token,
		},
	})
}

// Register handles account registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.PhoneNumber, req.Password, req.DisplayName, req.VerificationToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"account":      accountBody(result.Account),
		},
	})
}

// Login handles account login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   result.ExpiresIn,
			"account":      accountBody(result.Account),
		},
	})
}

// Me handles getting the authenticated account (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	token, exists := c.Get("access_token")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	account, err := h.authSvc.CurrentUser(c.Request.Context(), token.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accountBody(account)})
}

// Logout handles account logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "logged out",
		},
	})
}

func accountBody(account *domain.Account) gin.H {
	return gin.H{
		"id":           account.ID,
		"phone_number": domain.PhoneNumber(account.PhoneNumber).Masked(),
		"display_name": account.DisplayName,
		"role":         account.Role,
		"kyc_status":   account.KYCStatus,
		"is_active":    account.IsActive,
		"created_at":   account.CreatedAt,
		"updated_at":   account.UpdatedAt,
	}
}

// respondAuthError maps domain failures onto HTTP status codes. The core
// never logs or formats user messages; that happens here.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
	case errors.Is(err, domain.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be exactly 6 digits"})
	case errors.Is(err, domain.ErrPhoneAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
	case errors.Is(err, domain.ErrPhoneNotVerified):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number verification required"})
	case errors.Is(err, domain.ErrNoActiveCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active verification code"})
	case errors.Is(err, domain.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code has expired"})
	case errors.Is(err, domain.ErrCodeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect verification code"})
	case errors.Is(err, domain.ErrAttemptsExhausted):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded, request a new code"})
	case errors.Is(err, domain.ErrResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, domain.ErrSmsDispatchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification SMS"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
