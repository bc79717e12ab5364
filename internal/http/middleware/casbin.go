package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/domain"
)

// CasbinMW wraps the policy service for role-based route enforcement
type CasbinMW struct {
	policies domain.PolicyService
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService) *CasbinMW {
	return &CasbinMW{policies: policies}
}

// Enforce authorizes the request against the role policies loaded in Casbin.
// Subjects are role names prefixed with "role_".
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("account_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		allowed, err := mw.policies.CheckPermission("role_"+role.(string), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
