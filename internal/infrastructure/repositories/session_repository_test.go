package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/KEBA-mall/sto-backend/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSessionRepositoryImpl_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 30*time.Minute)

	session := &domain.Session{
		ID:        "sess_1_100",
		AccountID: 1,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The key carries the store TTL.
	ttl := client.TTL(ctx, "session:sess_1_100").Val()
	if ttl < 29*time.Minute || ttl > 30*time.Minute {
		t.Errorf("expected TTL around 30m, got %v", ttl)
	}

	found, err := repo.FindByID(ctx, "sess_1_100")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.AccountID != 1 {
		t.Errorf("expected account 1, got %d", found.AccountID)
	}
}

func TestSessionRepositoryImpl_FindByID_NotFound(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 30*time.Minute)

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryImpl_FindByID_Expired(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 30*time.Minute)

	session := &domain.Session{
		ID:        "sess_1_100",
		AccountID: 1,
		CreatedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.FindByID(ctx, "sess_1_100"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	// The expired entry is reaped on read.
	exists := client.Exists(ctx, "session:sess_1_100").Val()
	if exists != 0 {
		t.Error("expected expired session key to be deleted")
	}
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 30*time.Minute)

	session := &domain.Session{
		ID:        "sess_1_100",
		AccountID: 1,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, "sess_1_100"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, "sess_1_100"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after Delete, got %v", err)
	}

	// Deleting a missing session is not an error.
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing session failed: %v", err)
	}
}
