package mocks

import (
	"context"

	"github.com/KEBA-mall/sto-backend/domain"
)

// MockPhoneLocker implements domain.PhoneLocker interface for testing
type MockPhoneLocker struct {
	LockFunc func(ctx context.Context, phone domain.PhoneNumber) (func(), error)

	// LockCount tallies acquisitions for assertions
	LockCount int
}

// NewMockPhoneLocker creates a new MockPhoneLocker with default behaviors
func NewMockPhoneLocker() *MockPhoneLocker {
	return &MockPhoneLocker{}
}

// Lock acquires the per-phone lock
func (m *MockPhoneLocker) Lock(ctx context.Context, phone domain.PhoneNumber) (func(), error) {
	m.LockCount++
	if m.LockFunc != nil {
		return m.LockFunc(ctx, phone)
	}
	// Default behavior: uncontended lock
	return func() {}, nil
}

// Compile-time interface compliance verification
var _ domain.PhoneLocker = (*MockPhoneLocker)(nil)
