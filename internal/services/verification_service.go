package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/KEBA-mall/sto-backend/domain"
)

// VerificationServiceImpl implements domain.VerificationService. Each phone
// number walks the machine NONE -> ISSUED -> {CONFIRMED | EXPIRED |
// EXHAUSTED}; at most one unconfirmed record exists per phone because Issue
// supersedes all prior records under the per-phone lock.
type VerificationServiceImpl struct {
	verificationRepo domain.VerificationRepository
	smsSender        domain.SmsSender
	tokenSvc         domain.TokenService
	locker           domain.PhoneLocker
	clock            domain.Clock
	config           VerificationConfig
}

type VerificationConfig struct {
	CodeLength   int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewVerificationService creates a new verification code service
func NewVerificationService(
	verificationRepo domain.VerificationRepository,
	smsSender domain.SmsSender,
	tokenSvc domain.TokenService,
	locker domain.PhoneLocker,
	clock domain.Clock,
	config VerificationConfig,
) domain.VerificationService {
	return &VerificationServiceImpl{
		verificationRepo: verificationRepo,
		smsSender:        smsSender,
		tokenSvc:         tokenSvc,
		locker:           locker,
		clock:            clock,
		config:           config,
	}
}

// Issue implements domain.VerificationService. Record creation and SMS
// dispatch succeed together or not at all: a failed dispatch deletes the
// freshly saved record before the error is returned.
func (s *VerificationServiceImpl) Issue(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error) {
	unlock, err := s.locker.Lock(ctx, phone)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.clock.Now()

	if s.config.ResendWindow > 0 {
		prior, err := s.verificationRepo.FindLatestUnconfirmed(ctx, phone)
		if err == nil && now.Sub(prior.CreatedAt) < s.config.ResendWindow {
			return nil, domain.ErrResendThrottled
		}
	}

	// Supersede: any outstanding code for this phone is discarded.
	if err := s.verificationRepo.DeleteAllFor(ctx, phone); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	record := &domain.VerificationRecord{
		PhoneNumber: phone.String(),
		Code:        code,
		ExpiresAt:   now.Add(s.config.TTL),
		Attempts:    0,
		Confirmed:   false,
		CreatedAt:   now,
	}

	if err := s.verificationRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	message := fmt.Sprintf("[STO] verification code: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.smsSender.SendSMS(phone.String(), message); err != nil {
		if delErr := s.verificationRepo.Delete(ctx, record); delErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSmsDispatchFailed, err)
	}

	return record, nil
}

// Confirm implements domain.VerificationService. A successful match consumes
// the record and returns a short-lived phone-verification token for the
// registration step.
func (s *VerificationServiceImpl) Confirm(ctx context.Context, phone domain.PhoneNumber, code string) (string, error) {
	unlock, err := s.locker.Lock(ctx, phone)
	if err != nil {
		return "", err
	}
	defer unlock()

	record, err := s.verificationRepo.FindLatestUnconfirmed(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveCode) {
			return "", domain.ErrNoActiveCode
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	if record.IsExpired(s.clock.Now()) {
		if err := s.verificationRepo.Delete(ctx, record); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return "", domain.ErrCodeExpired
	}

	if record.AttemptsExhausted(s.config.MaxAttempts) {
		if err := s.verificationRepo.Delete(ctx, record); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return "", domain.ErrAttemptsExhausted
	}

	if record.Code != code {
		if err := s.verificationRepo.IncrementAttempts(ctx, record, record.Attempts); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		// The failed attempt that reaches the cap exhausts the code.
		if record.AttemptsExhausted(s.config.MaxAttempts) {
			if err := s.verificationRepo.Delete(ctx, record); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
			}
			return "", domain.ErrAttemptsExhausted
		}
		return "", domain.ErrCodeMismatch
	}

	// Match: consume the record so it can never be confirmed twice.
	if err := s.verificationRepo.Delete(ctx, record); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	token, err := s.tokenSvc.IssueVerification(phone)
	if err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}

	return token, nil
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *VerificationServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.CodeLength)

	for i := 0; i < s.config.CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
