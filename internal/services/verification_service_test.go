package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/KEBA-mall/sto-backend/domain"
	"github.com/KEBA-mall/sto-backend/internal/mocks"
)

const testPhone = domain.PhoneNumber("01012345678")

// fakeVerificationStore is a stateful in-memory VerificationRepository used
// to exercise the full issue/confirm state machine.
type fakeVerificationStore struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]*domain.VerificationRecord
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{nextID: 1, records: map[uint]*domain.VerificationRecord{}}
}

func (s *fakeVerificationStore) Save(ctx context.Context, record *domain.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == 0 {
		record.ID = s.nextID
		s.nextID++
	}
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *fakeVerificationStore) FindLatestUnconfirmed(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []*domain.VerificationRecord
	for _, r := range s.records {
		if r.PhoneNumber == phone.String() && !r.Confirmed {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoActiveCode
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	clone := *candidates[0]
	return &clone, nil
}

func (s *fakeVerificationStore) DeleteAllFor(ctx context.Context, phone domain.PhoneNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if r.PhoneNumber == phone.String() {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *fakeVerificationStore) Delete(ctx context.Context, record *domain.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, record.ID)
	return nil
}

func (s *fakeVerificationStore) IncrementAttempts(ctx context.Context, record *domain.VerificationRecord, expected int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[record.ID]
	if !ok || stored.Attempts != expected {
		return errors.New("attempts counter moved concurrently")
	}
	stored.Attempts = expected + 1
	record.Attempts = expected + 1
	return nil
}

func (s *fakeVerificationStore) unconfirmedCount(phone domain.PhoneNumber) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.records {
		if r.PhoneNumber == phone.String() && !r.Confirmed {
			count++
		}
	}
	return count
}

var _ domain.VerificationRepository = (*fakeVerificationStore)(nil)

func newVerificationServiceForTest(t *testing.T) (domain.VerificationService, *fakeVerificationStore, *mocks.MockSmsSender, *mocks.MockClock) {
	t.Helper()

	store := newFakeVerificationStore()
	sms := mocks.NewMockSmsSender()
	clock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tokenSvc := mocks.NewMockTokenService()
	locker := mocks.NewMockPhoneLocker()

	config := VerificationConfig{
		CodeLength:  6,
		TTL:         5 * time.Minute,
		MaxAttempts: 5,
	}

	svc := NewVerificationService(store, sms, tokenSvc, locker, clock, config)
	return svc, store, sms, clock
}

func TestVerificationService_Issue(t *testing.T) {
	svc, store, sms, clock := newVerificationServiceForTest(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if len(record.Code) != 6 {
		t.Errorf("expected 6-digit code, got %q", record.Code)
	}
	for _, r := range record.Code {
		if r < '0' || r > '9' {
			t.Errorf("code contains non-digit: %q", record.Code)
		}
	}
	if record.Attempts != 0 {
		t.Errorf("expected attempts 0, got %d", record.Attempts)
	}
	if !record.ExpiresAt.Equal(clock.Now().Add(5 * time.Minute)) {
		t.Errorf("expected expiry %v, got %v", clock.Now().Add(5*time.Minute), record.ExpiresAt)
	}
	if count := store.unconfirmedCount(testPhone); count != 1 {
		t.Errorf("expected 1 unconfirmed record, got %d", count)
	}
	if len(sms.Sent) != 1 {
		t.Fatalf("expected 1 SMS, got %d", len(sms.Sent))
	}
	if sms.Sent[0].To != testPhone.String() {
		t.Errorf("SMS sent to %s, expected %s", sms.Sent[0].To, testPhone)
	}
}

// A second Issue supersedes the first: exactly one unconfirmed record
// remains and the first code no longer confirms.
func TestVerificationService_Issue_Supersedes(t *testing.T) {
	svc, store, _, _ := newVerificationServiceForTest(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}
	second, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}

	if count := store.unconfirmedCount(testPhone); count != 1 {
		t.Errorf("expected exactly 1 unconfirmed record after reissue, got %d", count)
	}

	latest, err := store.FindLatestUnconfirmed(ctx, testPhone)
	if err != nil {
		t.Fatalf("FindLatestUnconfirmed failed: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("stored record is not the second issue: got ID %d, want %d", latest.ID, second.ID)
	}
	if latest.ID == first.ID {
		t.Error("first record survived the reissue")
	}
}

// Record and SMS dispatch succeed together or not at all.
func TestVerificationService_Issue_DispatchFailureRollsBack(t *testing.T) {
	svc, store, sms, _ := newVerificationServiceForTest(t)
	ctx := context.Background()

	sms.SendSMSFunc = func(to, message string) error {
		return errors.New("carrier unavailable")
	}

	_, err := svc.Issue(ctx, testPhone)
	if !errors.Is(err, domain.ErrSmsDispatchFailed) {
		t.Fatalf("expected ErrSmsDispatchFailed, got %v", err)
	}

	if count := store.unconfirmedCount(testPhone); count != 0 {
		t.Errorf("expected no orphaned record after dispatch failure, got %d", count)
	}
}

func TestVerificationService_Confirm_Success(t *testing.T) {
	svc, store, _, _ := newVerificationServiceForTest(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	token, err := svc.Confirm(ctx, testPhone, record.Code)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if token == "" {
		t.Error("expected a verification token")
	}

	// The record is consumed: confirming again finds nothing.
	if _, err := svc.Confirm(ctx, testPhone, record.Code); err != domain.ErrNoActiveCode {
		t.Errorf("expected ErrNoActiveCode on second confirm, got %v", err)
	}
	if count := store.unconfirmedCount(testPhone); count != 0 {
		t.Errorf("expected record consumed, found %d", count)
	}
}

func TestVerificationService_Confirm_NoActiveCode(t *testing.T) {
	svc, _, _, _ := newVerificationServiceForTest(t)

	if _, err := svc.Confirm(context.Background(), testPhone, "123456"); err != domain.ErrNoActiveCode {
		t.Errorf("expected ErrNoActiveCode, got %v", err)
	}
}

func TestVerificationService_Confirm_Expired(t *testing.T) {
	svc, store, _, clock := newVerificationServiceForTest(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	clock.Advance(5*time.Minute + time.Second)

	// Even the correct code fails once the window has passed.
	if _, err := svc.Confirm(ctx, testPhone, record.Code); err != domain.ErrCodeExpired {
		t.Errorf("expected ErrCodeExpired, got %v", err)
	}
	if count := store.unconfirmedCount(testPhone); count != 0 {
		t.Errorf("expected expired record deleted, found %d", count)
	}
}

// Wrong attempts 1-4 fail with CodeMismatch and keep the record alive;
// the fifth wrong attempt exhausts and deletes it, after which even the
// correct code finds nothing.
func TestVerificationService_Confirm_AttemptSequence(t *testing.T) {
	svc, store, _, _ := newVerificationServiceForTest(t)
	ctx := context.Background()

	record, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wrong := "000000"
	if wrong == record.Code {
		wrong = "000001"
	}

	for attempt := 1; attempt <= 4; attempt++ {
		_, err := svc.Confirm(ctx, testPhone, wrong)
		if err != domain.ErrCodeMismatch {
			t.Fatalf("attempt %d: expected ErrCodeMismatch, got %v", attempt, err)
		}
		if count := store.unconfirmedCount(testPhone); count != 1 {
			t.Fatalf("attempt %d: record should survive, found %d", attempt, count)
		}
	}

	if _, err := svc.Confirm(ctx, testPhone, wrong); err != domain.ErrAttemptsExhausted {
		t.Fatalf("attempt 5: expected ErrAttemptsExhausted, got %v", err)
	}
	if count := store.unconfirmedCount(testPhone); count != 0 {
		t.Errorf("exhausted record should be deleted, found %d", count)
	}

	if _, err := svc.Confirm(ctx, testPhone, record.Code); err != domain.ErrNoActiveCode {
		t.Errorf("correct code after exhaustion: expected ErrNoActiveCode, got %v", err)
	}
}

func TestVerificationService_Issue_ResendThrottle(t *testing.T) {
	store := newFakeVerificationStore()
	sms := mocks.NewMockSmsSender()
	clock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	config := VerificationConfig{
		CodeLength:   6,
		TTL:          5 * time.Minute,
		MaxAttempts:  5,
		ResendWindow: time.Minute,
	}
	svc := NewVerificationService(store, sms, mocks.NewMockTokenService(), mocks.NewMockPhoneLocker(), clock, config)
	ctx := context.Background()

	if _, err := svc.Issue(ctx, testPhone); err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}

	if _, err := svc.Issue(ctx, testPhone); err != domain.ErrResendThrottled {
		t.Errorf("expected ErrResendThrottled inside the window, got %v", err)
	}

	clock.Advance(time.Minute + time.Second)
	if _, err := svc.Issue(ctx, testPhone); err != nil {
		t.Errorf("Issue after the window failed: %v", err)
	}
}

// Every Issue and Confirm runs under the per-phone lock.
func TestVerificationService_OperationsAcquireLock(t *testing.T) {
	store := newFakeVerificationStore()
	sms := mocks.NewMockSmsSender()
	clock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	locker := mocks.NewMockPhoneLocker()

	config := VerificationConfig{CodeLength: 6, TTL: 5 * time.Minute, MaxAttempts: 5}
	svc := NewVerificationService(store, sms, mocks.NewMockTokenService(), locker, clock, config)
	ctx := context.Background()

	record, err := svc.Issue(ctx, testPhone)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.Confirm(ctx, testPhone, record.Code); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if locker.LockCount != 2 {
		t.Errorf("expected 2 lock acquisitions, got %d", locker.LockCount)
	}
}

func TestVerificationService_LockFailurePropagates(t *testing.T) {
	store := newFakeVerificationStore()
	locker := mocks.NewMockPhoneLocker()
	locker.LockFunc = func(ctx context.Context, phone domain.PhoneNumber) (func(), error) {
		return nil, domain.ErrStorageUnavailable
	}

	config := VerificationConfig{CodeLength: 6, TTL: 5 * time.Minute, MaxAttempts: 5}
	svc := NewVerificationService(store, mocks.NewMockSmsSender(), mocks.NewMockTokenService(), locker,
		mocks.NewMockClock(time.Now()), config)

	if _, err := svc.Issue(context.Background(), testPhone); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable from Issue, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), testPhone, "123456"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable from Confirm, got %v", err)
	}
}
