package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KEBA-mall/sto-backend/domain"
	"github.com/KEBA-mall/sto-backend/internal/config"
	"github.com/KEBA-mall/sto-backend/internal/infrastructure/auth"
	"github.com/KEBA-mall/sto-backend/internal/infrastructure/clock"
	"github.com/KEBA-mall/sto-backend/internal/infrastructure/database"
	"github.com/KEBA-mall/sto-backend/internal/infrastructure/notifications"
	"github.com/KEBA-mall/sto-backend/internal/infrastructure/repositories"
	"github.com/KEBA-mall/sto-backend/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	AccountRepo      domain.AccountRepository
	VerificationRepo domain.VerificationRepository
	SessionRepo      domain.SessionRepository

	// Services
	Clock           domain.Clock
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	SmsSender       domain.SmsSender
	PhoneLocker     domain.PhoneLocker
	VerificationSvc domain.VerificationService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}

	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.AccountRepo = repositories.NewAccountRepository(c.DB)
	c.VerificationRepo = repositories.NewVerificationRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.SessionTTL)
}

func (c *Container) initServices() error {
	c.Clock = clock.New()
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.SessionTTL,
		c.Config.VerificationTokenTTL,
		c.Clock,
	)
	c.SmsSender = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
	)
	c.PhoneLocker = database.NewPhoneLock(
		&database.RedisClient{Client: c.RedisClient},
		c.Config.PhoneLockTTL,
	)

	verificationConfig := services.VerificationConfig{
		CodeLength:   c.Config.CodeLength,
		TTL:          c.Config.CodeTTL,
		MaxAttempts:  c.Config.CodeMaxAttempts,
		ResendWindow: c.Config.CodeResendWindow,
	}
	c.VerificationSvc = services.NewVerificationService(
		c.VerificationRepo,
		c.SmsSender,
		c.TokenSvc,
		c.PhoneLocker,
		c.Clock,
		verificationConfig,
	)

	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	authConfig := services.AuthConfig{
		SessionTTL:               c.Config.SessionTTL,
		RequirePhoneVerification: c.Config.RequirePhoneVerification,
	}
	c.AuthSvc = services.NewAuthService(
		c.AccountRepo,
		c.VerificationRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.VerificationSvc,
		c.Clock,
		authConfig,
	)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
