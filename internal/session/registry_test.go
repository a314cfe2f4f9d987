package session

import (
	"testing"
	"time"

	"leadadmin/internal/models"
)

var testUser = models.User{
	ID:       1700000000000,
	Username: "maria",
	Name:     "Maria",
	Email:    "maria@example.com",
	Role:     models.RoleManager,
}

func TestCreateThenValidateReturnsSession(t *testing.T) {
	r := NewRegistry(24 * time.Hour)
	sess, err := r.Create(testUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected non-empty token")
	}

	got, ok := r.Validate(sess.Token)
	if !ok {
		t.Fatalf("expected session to validate")
	}
	if got.UserID != testUser.ID || got.Username != "maria" || got.Role != models.RoleManager || got.Email != "maria@example.com" {
		t.Fatalf("session fields do not match user: %+v", got)
	}
}

func TestDestroyThenValidateFails(t *testing.T) {
	r := NewRegistry(24 * time.Hour)
	sess, err := r.Create(testUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r.Destroy(sess.Token)
	if _, ok := r.Validate(sess.Token); ok {
		t.Fatalf("expected destroyed session to be rejected")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}

	// Destroy is idempotent.
	r.Destroy(sess.Token)
	r.Destroy("never-existed")
}

func TestValidateHonorsTTLBoundary(t *testing.T) {
	r := NewRegistry(24 * time.Hour)
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := created
	r.now = func() time.Time { return now }

	sess, err := r.Create(testUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now = created.Add(23*time.Hour + 59*time.Minute)
	if _, ok := r.Validate(sess.Token); !ok {
		t.Fatalf("expected session accepted at T+23h59m")
	}

	now = created.Add(24*time.Hour + time.Minute)
	if _, ok := r.Validate(sess.Token); ok {
		t.Fatalf("expected session rejected at T+24h01m")
	}
	if r.Len() != 0 {
		t.Fatalf("expected expired session removed, got %d live", r.Len())
	}
}

func TestTokensDoNotCollide(t *testing.T) {
	r := NewRegistry(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		sess, err := r.Create(testUser)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[sess.Token] {
			t.Fatalf("token collision after %d sessions", i)
		}
		seen[sess.Token] = true
	}
	if r.Len() != 200 {
		t.Fatalf("expected 200 live sessions, got %d", r.Len())
	}
}

func TestExpiryTimerRemovesSession(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	sess, err := r.Create(testUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for r.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timer did not remove expired session")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok := r.Validate(sess.Token); ok {
		t.Fatalf("expected timer-expired session to be rejected")
	}
}
