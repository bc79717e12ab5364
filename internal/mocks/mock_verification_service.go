package mocks

import (
	"context"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockVerificationService implements domain.VerificationService interface for testing
type MockVerificationService struct {
	IssueFunc   func(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error)
	ConfirmFunc func(ctx context.Context, phone domain.PhoneNumber, code string) (string, error)
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

// Issue issues a verification code
func (m *MockVerificationService) Issue(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, phone)
	}
	// Default behavior: fixed test code
	return &domain.VerificationRecord{
		PhoneNumber: phone.String(),
		Code:        "123456",
	}, nil
}

// Confirm confirms a verification code
func (m *MockVerificationService) Confirm(ctx context.Context, phone domain.PhoneNumber, code string) (string, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, phone, code)
	}
	// Default behavior: no active code
	return "", domain.ErrNoActiveCode
}

// Compile-time interface compliance verification
var _ domain.VerificationService = (*MockVerificationService)(nil)
