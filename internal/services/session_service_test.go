package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"filestore-backend/internal/models"
)

const testSecret = "test-secret"

func testUser() *models.User {
	return &models.User{ID: 7, Username: "alice", Email: "alice@x.com", Role: models.UserRoleUser}
}

func TestSession_StartAndResolve(t *testing.T) {
	service := NewSessionService(newFakeSessionStore(), testSecret, time.Hour)
	user := testUser()

	token, err := service.Start(context.Background(), user)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	claims, err := service.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.Username != user.Username {
		t.Errorf("expected username %q, got %q", user.Username, claims.Username)
	}
	if claims.Role != user.Role {
		t.Errorf("expected role %q, got %q", user.Role, claims.Role)
	}
}

func TestSession_EndRevokesToken(t *testing.T) {
	service := NewSessionService(newFakeSessionStore(), testSecret, time.Hour)

	token, err := service.Start(context.Background(), testUser())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := service.End(context.Background(), token); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if _, err := service.Resolve(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("token should no longer resolve after logout, got %v", err)
	}

	// ending again is a no-op
	if err := service.End(context.Background(), token); err != nil {
		t.Errorf("End should be idempotent, got %v", err)
	}
}

func TestSession_Expiry(t *testing.T) {
	// negative TTL: the session row is born expired
	service := NewSessionService(newFakeSessionStore(), testSecret, -time.Minute)

	token, err := service.Start(context.Background(), testUser())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := service.Resolve(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expired session should not resolve, got %v", err)
	}
}

func TestSession_GarbageToken(t *testing.T) {
	service := NewSessionService(newFakeSessionStore(), testSecret, time.Hour)

	if _, err := service.Resolve(context.Background(), "not-a-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("garbage token should be invalid, got %v", err)
	}
	if err := service.End(context.Background(), "not-a-token"); err != nil {
		t.Errorf("ending a garbage token should be a no-op, got %v", err)
	}
}

func TestSession_WrongSecret(t *testing.T) {
	store := newFakeSessionStore()
	issuer := NewSessionService(store, "other-secret", time.Hour)
	service := NewSessionService(store, testSecret, time.Hour)

	token, err := issuer.Start(context.Background(), testUser())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := service.Resolve(context.Background(), token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("token signed with a different secret should be invalid, got %v", err)
	}
}
