package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/domain"
)

// AuthMW wraps the token service and session repository for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithJWT returns a middleware that only admits bearer tokens carrying the
// session purpose; phone-verification tokens are rejected here even when
// their signature is valid.
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token := tokenParts[1]

		claims, err := mw.tokenSvc.Validate(token, domain.PurposeSession)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		// A token is only as alive as its session.
		if claims.SessionID != "" {
			session, err := mw.sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
				c.Abort()
				return
			}

			if session.AccountID != claims.AccountID {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session account mismatch"})
				c.Abort()
				return
			}
		}

		c.Set("access_token", token)
		c.Set("account_id", fmt.Sprintf("%d", claims.AccountID))
		c.Set("account_role", claims.Role)
		if claims.SessionID != "" {
			c.Set("session_id", claims.SessionID)
		}

		c.Next()
	}
}
