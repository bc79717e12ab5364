package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestLock(t *testing.T) (*PhoneLock, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	client := NewRedis(mr.Addr(), "", 0)
	return NewPhoneLock(client, 5*time.Second), mr
}

func TestPhoneLock_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	lock, mr := setupTestLock(t)

	release, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	if !mr.Exists("verify:lock:01012345678") {
		t.Error("expected lock key to exist while held")
	}

	release()

	if mr.Exists("verify:lock:01012345678") {
		t.Error("expected lock key to be gone after release")
	}

	// Re-acquire after release succeeds immediately.
	release2, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("re-acquire failed: %v", err)
	}
	release2()
}

func TestPhoneLock_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	lock, _ := setupTestLock(t)

	release, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	// A second holder blocks until the first releases or its context dies.
	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := lock.Lock(shortCtx, "01012345678"); err == nil {
		t.Fatal("expected second Lock on same phone to time out")
	}

	release()

	// Now the phone is free again.
	release2, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	release2()
}

func TestPhoneLock_PhonesAreIndependent(t *testing.T) {
	ctx := context.Background()
	lock, _ := setupTestLock(t)

	releaseA, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	defer releaseA()

	// Holding one phone's lock does not block another phone.
	releaseB, err := lock.Lock(ctx, "01099998888")
	if err != nil {
		t.Fatalf("Lock on independent phone failed: %v", err)
	}
	releaseB()
}

func TestPhoneLock_StaleHolderCannotRelease(t *testing.T) {
	ctx := context.Background()
	lock, mr := setupTestLock(t)

	releaseOld, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	// Simulate TTL expiry and a new holder taking over.
	mr.FastForward(6 * time.Second)
	releaseNew, err := lock.Lock(ctx, "01012345678")
	if err != nil {
		t.Fatalf("Lock after expiry failed: %v", err)
	}
	defer releaseNew()

	// The old holder's release is a no-op against the new holder's token.
	releaseOld()
	if !mr.Exists("verify:lock:01012345678") {
		t.Error("expected new holder's lock to survive stale release")
	}
}
