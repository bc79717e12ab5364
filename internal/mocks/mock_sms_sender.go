package mocks

import "github.com/KEBA-mall/sto-backend/domain"

// MockSmsSender implements domain.SmsSender interface for testing
type MockSmsSender struct {
	SendSMSFunc func(to, message string) error

	// Sent records every dispatched message for assertions
	Sent []SentSMS
}

// SentSMS captures a dispatched message
type SentSMS struct {
	To      string
	Message string
}

// NewMockSmsSender creates a new MockSmsSender with default behaviors
func NewMockSmsSender() *MockSmsSender {
	return &MockSmsSender{}
}

// SendSMS sends an SMS message
func (m *MockSmsSender) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		if err := m.SendSMSFunc(to, message); err != nil {
			return err
		}
	}
	// Default behavior: record and succeed (no actual SMS sent in tests)
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	return nil
}

// Compile-time interface compliance verification
var _ domain.SmsSender = (*MockSmsSender)(nil)
