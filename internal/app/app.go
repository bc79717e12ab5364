package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/internal/config"
	httpx "github.com/KEBA-mall/sto-backend/internal/http"
	"github.com/KEBA-mall/sto-backend/internal/http/handlers"
	"github.com/KEBA-mall/sto-backend/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	adminH := handlers.NewAdminHandlers(c.AccountRepo)
	policyH := &handlers.PolicyHandlers{Policies: c.PolicySvc}

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	casbinMW := middleware.NewCasbinMW(c.PolicySvc)

	r := httpx.BuildRouter(authH, adminH, policyH, jwtMW, casbinMW)

	policies := c.PolicySvc.GetPolicies()
	if len(policies) == 0 {
		seed := [][3]string{
			{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
			{"role_admin", "/auth/me", "GET"},
			{"role_admin", "/auth/logout", "POST"},
			{"role_customer", "/auth/me", "GET"},
			{"role_customer", "/auth/logout", "POST"},
			{"role_seller", "/auth/me", "GET"},
			{"role_seller", "/auth/logout", "POST"},
		}
		for _, p := range seed {
			if err := c.PolicySvc.AddPolicy(p[0], p[1], p[2]); err != nil {
				return err
			}
		}
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Environment)
	return http.ListenAndServe(addr, r)
}
