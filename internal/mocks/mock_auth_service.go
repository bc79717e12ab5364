package mocks

import (
	"context"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RequestCodeFunc func(ctx context.Context, rawPhone string) (string, error)
	ConfirmCodeFunc func(ctx context.Context, rawPhone, code string) (string, error)
	RegisterFunc    func(ctx context.Context, rawPhone, password, displayName, verificationToken string) (*domain.AuthResult, error)
	LoginFunc       func(ctx context.Context, rawPhone, password string) (*domain.AuthResult, error)
	CurrentUserFunc func(ctx context.Context, token string) (*domain.Account, error)
	LogoutFunc      func(ctx context.Context, sessionID string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// RequestCode requests a verification code
func (m *MockAuthService) RequestCode(ctx context.Context, rawPhone string) (string, error) {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, rawPhone)
	}
	return "verification code sent", nil
}

// ConfirmCode confirms a verification code
func (m *MockAuthService) ConfirmCode(ctx context.Context, rawPhone, code string) (string, error) {
	if m.ConfirmCodeFunc != nil {
		return m.ConfirmCodeFunc(ctx, rawPhone, code)
	}
	return "verification_token", nil
}

// Register registers a new account
func (m *MockAuthService) Register(ctx context.Context, rawPhone, password, displayName, verificationToken string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, rawPhone, password, displayName, verificationToken)
	}
	return nil, domain.ErrPhoneNotVerified
}

// Login logs an account in
func (m *MockAuthService) Login(ctx context.Context, rawPhone, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, rawPhone, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// CurrentUser resolves the account behind a session token
func (m *MockAuthService) CurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, token)
	}
	return nil, domain.ErrUnauthenticated
}

// Logout deletes a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
