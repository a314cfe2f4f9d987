package store

import (
	"errors"
	"path/filepath"
	"testing"

	"leadadmin/internal/models"
)

func TestMissingAuthFileMeansZeroUsers(t *testing.T) {
	s := NewAuthStore(filepath.Join(t.TempDir(), "auth.json"))
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected zero users, got %d", len(got))
	}
	if _, err := s.FindByUsername("admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAndFindByUsername(t *testing.T) {
	s := NewAuthStore(filepath.Join(t.TempDir(), "auth.json"))

	created, err := s.Create(models.User{Username: "maria", PasswordHash: "$2b$10$x", Name: "Maria", Role: models.RoleManager})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt == nil {
		t.Fatalf("expected assigned id and created_at, got %+v", created)
	}

	found, err := s.FindByUsername("maria")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID || found.Role != models.RoleManager {
		t.Fatalf("expected stored record back, got %+v", found)
	}
}

func TestCreateDuplicateUsernameConflicts(t *testing.T) {
	s := NewAuthStore(filepath.Join(t.TempDir(), "auth.json"))
	if _, err := s.Create(models.User{Username: "admin", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(models.User{Username: "admin", Role: models.RoleViewer}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(s.List()) != 1 {
		t.Fatalf("expected single user after conflict")
	}
}

func TestSetPassword(t *testing.T) {
	s := NewAuthStore(filepath.Join(t.TempDir(), "auth.json"))
	if _, err := s.Create(models.User{Username: "admin", PasswordHash: "old", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.SetPassword("admin", "new"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	u, err := s.FindByUsername("admin")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.PasswordHash != "new" || u.UpdatedAt == nil {
		t.Fatalf("expected updated hash and timestamp, got %+v", u)
	}

	if err := s.SetPassword("ghost", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
