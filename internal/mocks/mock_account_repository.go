package mocks

import (
	"context"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockAccountRepository implements domain.AccountRepository interface for testing
type MockAccountRepository struct {
	CreateFunc          func(ctx context.Context, account *domain.Account) error
	FindByPhoneFunc     func(ctx context.Context, phone domain.PhoneNumber) (*domain.Account, error)
	FindByIDFunc        func(ctx context.Context, id uint) (*domain.Account, error)
	UpdateFunc          func(ctx context.Context, account *domain.Account) error
	ListByKYCStatusFunc func(ctx context.Context, status string) ([]domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// FindByPhone finds an account by phone number
func (m *MockAccountRepository) FindByPhone(ctx context.Context, phone domain.PhoneNumber) (*domain.Account, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// Update updates an existing account
func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// ListByKYCStatus lists accounts by KYC status
func (m *MockAccountRepository) ListByKYCStatus(ctx context.Context, status string) ([]domain.Account, error) {
	if m.ListByKYCStatusFunc != nil {
		return m.ListByKYCStatusFunc(ctx, status)
	}
	// Default behavior: empty list
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
