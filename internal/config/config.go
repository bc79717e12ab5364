package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	SessionTTL      string `yaml:"session_ttl"`
	DevSessionTTL   string `yaml:"dev_session_ttl"`
	VerificationTTL string `yaml:"verification_ttl"`
}

type VerificationConfig struct {
	CodeLength   int    `yaml:"code_length"`
	TTL          string `yaml:"ttl"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
	LockTTL      string `yaml:"lock_ttl"`
}

type AuthConfig struct {
	RequirePhoneVerification bool `yaml:"require_phone_verification"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Verification VerificationConfig `yaml:"verification"`
	Auth         AuthConfig         `yaml:"auth"`
	Twilio       TwilioConfig       `yaml:"twilio"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

type Config struct {
	Port                     string
	GinMode                  string
	Environment              string
	DSN                      string
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	JWTSecret                string
	JWTIssuer                string
	SessionTTL               time.Duration
	VerificationTokenTTL     time.Duration
	CodeLength               int
	CodeTTL                  time.Duration
	CodeMaxAttempts          int
	CodeResendWindow         time.Duration
	PhoneLockTTL             time.Duration
	RequirePhoneVerification bool
	TwilioSID                string
	TwilioToken              string
	TwilioFrom               string
	CasbinModelPath          string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.JWT.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	verificationTTL, err := time.ParseDuration(configFile.JWT.VerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification token TTL: %w", err)
	}

	codeTTL, err := time.ParseDuration(configFile.Verification.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification code TTL: %w", err)
	}

	resendWindow, err := time.ParseDuration(configFile.Verification.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid resend window: %w", err)
	}

	lockTTL, err := time.ParseDuration(configFile.Verification.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid phone lock TTL: %w", err)
	}

	environment := env("APP_ENV", configFile.App.Environment)
	if environment == "" {
		environment = EnvDevelopment
	}

	// Development keeps sessions alive much longer to ease manual testing.
	if environment == EnvDevelopment && configFile.JWT.DevSessionTTL != "" {
		devTTL, err := time.ParseDuration(configFile.JWT.DevSessionTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid dev session TTL: %w", err)
		}
		sessionTTL = devTTL
	}

	return &Config{
		Port:                     fmt.Sprintf("%d", configFile.App.Port),
		GinMode:                  configFile.App.GinMode,
		Environment:              environment,
		DSN:                      env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:                env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:            env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:                  configFile.Redis.DB,
		JWTSecret:                env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:                configFile.JWT.Issuer,
		SessionTTL:               sessionTTL,
		VerificationTokenTTL:     verificationTTL,
		CodeLength:               configFile.Verification.CodeLength,
		CodeTTL:                  codeTTL,
		CodeMaxAttempts:          configFile.Verification.MaxAttempts,
		CodeResendWindow:         resendWindow,
		PhoneLockTTL:             lockTTL,
		RequirePhoneVerification: configFile.Auth.RequirePhoneVerification,
		TwilioSID:                env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:              env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:               env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CasbinModelPath:          configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
