package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KEBA-mall/sto-backend/domain"
)

// AuthServiceImpl implements domain.AuthService. It orchestrates phone
// normalization, the verification code store, password hashing and token
// issuance into the user-facing operations.
type AuthServiceImpl struct {
	accountRepo      domain.AccountRepository
	verificationRepo domain.VerificationRepository
	sessionRepo      domain.SessionRepository
	passwordSvc      domain.PasswordService
	tokenSvc         domain.TokenService
	verificationSvc  domain.VerificationService
	clock            domain.Clock
	config           AuthConfig
}

type AuthConfig struct {
	SessionTTL               time.Duration
	RequirePhoneVerification bool
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo domain.AccountRepository,
	verificationRepo domain.VerificationRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	verificationSvc domain.VerificationService,
	clock domain.Clock,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		accountRepo:      accountRepo,
		verificationRepo: verificationRepo,
		sessionRepo:      sessionRepo,
		passwordSvc:      passwordSvc,
		tokenSvc:         tokenSvc,
		verificationSvc:  verificationSvc,
		clock:            clock,
		config:           config,
	}
}

// RequestCode implements domain.AuthService. Returns a confirmation message
// carrying only the masked phone number.
func (s *AuthServiceImpl) RequestCode(ctx context.Context, rawPhone string) (string, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	if _, err := s.accountRepo.FindByPhone(ctx, phone); err == nil {
		return "", domain.ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if _, err := s.verificationSvc.Issue(ctx, phone); err != nil {
		return "", err
	}

	return fmt.Sprintf("verification code sent to %s", phone.Masked()), nil
}

// ConfirmCode implements domain.AuthService. On success the returned
// phone-verification token proves the confirmation to the registration step.
func (s *AuthServiceImpl) ConfirmCode(ctx context.Context, rawPhone, code string) (string, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return "", err
	}

	return s.verificationSvc.Confirm(ctx, phone, code)
}

// Register implements domain.AuthService. When phone verification is
// required, the caller must present a verification token for the same
// phone number.
func (s *AuthServiceImpl) Register(ctx context.Context, rawPhone, password, displayName, verificationToken string) (*domain.AuthResult, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	if !isNumericPassword(password) {
		return nil, domain.ErrInvalidPassword
	}

	if _, err := s.accountRepo.FindByPhone(ctx, phone); err == nil {
		return nil, domain.ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if s.config.RequirePhoneVerification {
		claims, err := s.tokenSvc.Validate(verificationToken, domain.PurposePhoneVerification)
		if err != nil || claims.PhoneNumber != phone.String() {
			return nil, domain.ErrPhoneNotVerified
		}
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		PhoneNumber:  phone.String(),
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         domain.RoleCustomer,
		KYCStatus:    domain.KYCPending,
		IsActive:     true,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrPhoneAlreadyRegistered) {
			return nil, domain.ErrPhoneAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Any leftover verification rows for this phone are dead weight now.
	if err := s.verificationRepo.DeleteAllFor(ctx, phone); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return s.openSession(ctx, account)
}

// Login implements domain.AuthService. A missing account, an inactive
// account and a wrong password all collapse into ErrInvalidCredentials so
// the endpoint cannot be used to enumerate phone numbers.
func (s *AuthServiceImpl) Login(ctx context.Context, rawPhone, password string) (*domain.AuthResult, error) {
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if !account.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, account)
}

// CurrentUser implements domain.AuthService. Every failure collapses into
// ErrUnauthenticated.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokenSvc.Validate(token, domain.PurposeSession)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if claims.SessionID != "" {
		session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
		if err != nil || session.AccountID != claims.AccountID {
			return nil, domain.ErrUnauthenticated
		}
	}

	account, err := s.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil || !account.IsActive {
		return nil, domain.ErrUnauthenticated
	}

	return account, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *AuthServiceImpl) openSession(ctx context.Context, account *domain.Account) (*domain.AuthResult, error) {
	now := s.clock.Now()
	phone := domain.PhoneNumber(account.PhoneNumber)

	session := &domain.Session{
		ID:        fmt.Sprintf("sess_%d_%d", account.ID, now.UnixNano()),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.config.SessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.IssueSession(account.ID, phone, account.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &domain.AuthResult{
		Account:     account,
		AccessToken: accessToken,
		SessionID:   session.ID,
		ExpiresIn:   int64(s.config.SessionTTL.Seconds()),
	}, nil
}

// isNumericPassword enforces the domain password policy: exactly 6 digits.
func isNumericPassword(password string) bool {
	if len(password) != 6 {
		return false
	}
	for _, r := range password {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
