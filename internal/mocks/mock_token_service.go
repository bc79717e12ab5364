package mocks

import (
	"fmt"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueSessionFunc      func(accountID uint, phone domain.PhoneNumber, role, sessionID string) (string, error)
	IssueVerificationFunc func(phone domain.PhoneNumber) (string, error)
	ValidateFunc          func(token, expectedPurpose string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueSession issues a session token
func (m *MockTokenService) IssueSession(accountID uint, phone domain.PhoneNumber, role, sessionID string) (string, error) {
	if m.IssueSessionFunc != nil {
		return m.IssueSessionFunc(accountID, phone, role, sessionID)
	}
	// Default behavior: deterministic fake token
	return fmt.Sprintf("session_token_%d", accountID), nil
}

// IssueVerification issues a phone-verification token
func (m *MockTokenService) IssueVerification(phone domain.PhoneNumber) (string, error) {
	if m.IssueVerificationFunc != nil {
		return m.IssueVerificationFunc(phone)
	}
	// Default behavior: deterministic fake token
	return "verification_token_" + phone.String(), nil
}

// Validate validates a token against an expected purpose
func (m *MockTokenService) Validate(token, expectedPurpose string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token, expectedPurpose)
	}
	// Default behavior: invalid
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
