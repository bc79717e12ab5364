package mocks

import (
	"context"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockVerificationRepository implements domain.VerificationRepository interface for testing
type MockVerificationRepository struct {
	SaveFunc                  func(ctx context.Context, record *domain.VerificationRecord) error
	FindLatestUnconfirmedFunc func(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error)
	DeleteAllForFunc          func(ctx context.Context, phone domain.PhoneNumber) error
	DeleteFunc                func(ctx context.Context, record *domain.VerificationRecord) error
	IncrementAttemptsFunc     func(ctx context.Context, record *domain.VerificationRecord, expected int) error
}

// NewMockVerificationRepository creates a new MockVerificationRepository with default behaviors
func NewMockVerificationRepository() *MockVerificationRepository {
	return &MockVerificationRepository{}
}

// Save persists a verification record
func (m *MockVerificationRepository) Save(ctx context.Context, record *domain.VerificationRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	// Default behavior: success
	return nil
}

// FindLatestUnconfirmed returns the latest unconfirmed record for a phone
func (m *MockVerificationRepository) FindLatestUnconfirmed(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error) {
	if m.FindLatestUnconfirmedFunc != nil {
		return m.FindLatestUnconfirmedFunc(ctx, phone)
	}
	// Default behavior: no active code
	return nil, domain.ErrNoActiveCode
}

// DeleteAllFor removes every record for a phone
func (m *MockVerificationRepository) DeleteAllFor(ctx context.Context, phone domain.PhoneNumber) error {
	if m.DeleteAllForFunc != nil {
		return m.DeleteAllForFunc(ctx, phone)
	}
	// Default behavior: success
	return nil
}

// Delete removes a single record
func (m *MockVerificationRepository) Delete(ctx context.Context, record *domain.VerificationRecord) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, record)
	}
	// Default behavior: success
	return nil
}

// IncrementAttempts bumps the attempt counter conditionally
func (m *MockVerificationRepository) IncrementAttempts(ctx context.Context, record *domain.VerificationRecord, expected int) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, record, expected)
	}
	// Default behavior: success
	record.Attempts = expected + 1
	return nil
}

// Compile-time interface compliance verification
var _ domain.VerificationRepository = (*MockVerificationRepository)(nil)
