package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/internal/http/handlers"
	"github.com/KEBA-mall/sto-backend/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, adh *handlers.AdminHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/code/request", ah.RequestCode)
	auth.POST("/code/confirm", ah.ConfirmCode)
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/accounts/pending", adh.ListPendingKYC)
	adm.PUT("/accounts/:id/kyc", adh.UpdateKYC)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
