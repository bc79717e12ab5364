package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KEBA-mall/sto-backend/domain"
)

func testRecord(phone, code string, createdAt time.Time) *domain.VerificationRecord {
	return &domain.VerificationRecord{
		PhoneNumber: phone,
		Code:        code,
		ExpiresAt:   createdAt.Add(5 * time.Minute),
		CreatedAt:   createdAt,
	}
}

func TestVerificationRepositoryImpl_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)

	record := testRecord("01012345678", "123456", time.Now())
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if record.ID == 0 {
		t.Error("expected ID to be populated after Save")
	}

	found, err := repo.FindLatestUnconfirmed(ctx, "01012345678")
	if err != nil {
		t.Fatalf("FindLatestUnconfirmed failed: %v", err)
	}
	if found.Code != "123456" {
		t.Errorf("expected code 123456, got %s", found.Code)
	}
	if found.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", found.Attempts)
	}

	if _, err := repo.FindLatestUnconfirmed(ctx, "01000000000"); !errors.Is(err, domain.ErrNoActiveCode) {
		t.Errorf("expected ErrNoActiveCode, got %v", err)
	}
}

func TestVerificationRepositoryImpl_FindLatestUnconfirmed_OrderAndFilter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)

	base := time.Now().Add(-time.Hour)

	older := testRecord("01012345678", "111111", base)
	newer := testRecord("01012345678", "222222", base.Add(time.Minute))
	confirmed := testRecord("01012345678", "333333", base.Add(2*time.Minute))
	confirmed.Confirmed = true
	otherPhone := testRecord("01099998888", "444444", base.Add(3*time.Minute))

	for _, r := range []*domain.VerificationRecord{older, newer, confirmed, otherPhone} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	found, err := repo.FindLatestUnconfirmed(ctx, "01012345678")
	if err != nil {
		t.Fatalf("FindLatestUnconfirmed failed: %v", err)
	}
	// Newest unconfirmed wins; confirmed rows are invisible.
	if found.Code != "222222" {
		t.Errorf("expected latest unconfirmed code 222222, got %s", found.Code)
	}
}

func TestVerificationRepositoryImpl_DeleteAllFor(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)

	base := time.Now()
	for i, code := range []string{"111111", "222222"} {
		if err := repo.Save(ctx, testRecord("01012345678", code, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	keep := testRecord("01099998888", "333333", base)
	if err := repo.Save(ctx, keep); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.DeleteAllFor(ctx, "01012345678"); err != nil {
		t.Fatalf("DeleteAllFor failed: %v", err)
	}

	if _, err := repo.FindLatestUnconfirmed(ctx, "01012345678"); !errors.Is(err, domain.ErrNoActiveCode) {
		t.Errorf("expected ErrNoActiveCode after DeleteAllFor, got %v", err)
	}

	// Other phones untouched.
	if _, err := repo.FindLatestUnconfirmed(ctx, "01099998888"); err != nil {
		t.Errorf("expected other phone's record to survive, got %v", err)
	}
}

func TestVerificationRepositoryImpl_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)

	record := testRecord("01012345678", "123456", time.Now())
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete(ctx, record); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.FindLatestUnconfirmed(ctx, "01012345678"); !errors.Is(err, domain.ErrNoActiveCode) {
		t.Errorf("expected ErrNoActiveCode after Delete, got %v", err)
	}
}

func TestVerificationRepositoryImpl_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewVerificationRepository(db)

	record := testRecord("01012345678", "123456", time.Now())
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.IncrementAttempts(ctx, record, 0); err != nil {
		t.Fatalf("IncrementAttempts failed: %v", err)
	}
	if record.Attempts != 1 {
		t.Errorf("expected in-memory attempts 1, got %d", record.Attempts)
	}

	found, err := repo.FindLatestUnconfirmed(ctx, "01012345678")
	if err != nil {
		t.Fatalf("FindLatestUnconfirmed failed: %v", err)
	}
	if found.Attempts != 1 {
		t.Errorf("expected stored attempts 1, got %d", found.Attempts)
	}

	// Two confirms that both read attempts=0: the conditional update lets
	// exactly one of them win.
	stale := *found
	stale.Attempts = 0
	if err := repo.IncrementAttempts(ctx, &stale, 0); err == nil {
		t.Error("expected error for stale expected counter")
	}

	// The counter did not move for the loser.
	found, err = repo.FindLatestUnconfirmed(ctx, "01012345678")
	if err != nil {
		t.Fatalf("FindLatestUnconfirmed failed: %v", err)
	}
	if found.Attempts != 1 {
		t.Errorf("expected attempts to stay at 1, got %d", found.Attempts)
	}
}
