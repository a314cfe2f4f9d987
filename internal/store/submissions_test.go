package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"leadadmin/internal/models"
)

func newSubmissionStore(t *testing.T) *SubmissionStore {
	t.Helper()
	return NewSubmissionStore(filepath.Join(t.TempDir(), "submissions.json"))
}

func TestAppendAssignsNewStatusAndUniqueIDs(t *testing.T) {
	s := newSubmissionStore(t)
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, err := s.Append("Ivan", "", "ivan@example.com", "", "203.0.113.7")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := s.Append("Maria", "Petrova", "maria@example.com", "+371 555", "203.0.113.8")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if first.Status != models.StatusNew || second.Status != models.StatusNew {
		t.Fatalf("expected new status, got %q and %q", first.Status, second.Status)
	}
	if first.ID == second.ID {
		t.Fatalf("expected unique ids for same-millisecond appends, both got %d", first.ID)
	}
	if first.ID != fixed.UnixMilli() {
		t.Fatalf("expected time-derived id %d, got %d", fixed.UnixMilli(), first.ID)
	}
	if first.IP != "203.0.113.7" {
		t.Fatalf("expected recorded ip, got %q", first.IP)
	}

	all := s.List()
	if len(all) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(all))
	}
}

func TestListSortsByDateDescending(t *testing.T) {
	s := newSubmissionStore(t)
	times := []time.Time{
		time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	i := 0
	s.now = func() time.Time { ts := times[i]; i++; return ts }

	for range times {
		if _, err := s.Append("A", "", "a@example.com", "", "127.0.0.1"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all := s.List()
	for j := 1; j < len(all); j++ {
		if all[j].Date.After(all[j-1].Date) {
			t.Fatalf("expected descending order, got %v before %v", all[j-1].Date, all[j].Date)
		}
	}
}

func TestUpdateStatusInvalidLeavesRecordUnchanged(t *testing.T) {
	s := newSubmissionStore(t)
	sub, err := s.Append("Ivan", "", "ivan@example.com", "", "127.0.0.1")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := s.UpdateStatus(sub.ID, "archived", "admin"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	all := s.List()
	if len(all) != 1 || all[0].Status != models.StatusNew || all[0].UpdatedAt != nil {
		t.Fatalf("expected record unchanged, got %+v", all[0])
	}
}

func TestUpdateStatusStampsAuditFields(t *testing.T) {
	s := newSubmissionStore(t)
	sub, err := s.Append("Ivan", "", "ivan@example.com", "", "127.0.0.1")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	updated, err := s.UpdateStatus(sub.ID, models.StatusContacted, "manager")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.StatusContacted {
		t.Fatalf("expected contacted, got %q", updated.Status)
	}
	if updated.UpdatedAt == nil || updated.UpdatedBy != "manager" {
		t.Fatalf("expected audit fields, got %+v", updated)
	}

	// Any status may follow any other; completed -> new is allowed.
	if _, err := s.UpdateStatus(sub.ID, models.StatusCompleted, "manager"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.UpdateStatus(sub.ID, models.StatusNew, "manager"); err != nil {
		t.Fatalf("expected completed -> new to be allowed, got %v", err)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	s := newSubmissionStore(t)
	if _, err := s.UpdateStatus(42, models.StatusViewed, "admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnknownLeavesCollectionUnchanged(t *testing.T) {
	s := newSubmissionStore(t)
	sub, err := s.Append("Ivan", "", "ivan@example.com", "", "127.0.0.1")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := s.Delete(sub.ID + 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all := s.List()
	if len(all) != 1 || all[0].ID != sub.ID {
		t.Fatalf("expected collection unchanged, got %+v", all)
	}
}

func TestDeleteReturnsRemainingCount(t *testing.T) {
	s := newSubmissionStore(t)
	var ids []int64
	for i := 0; i < 3; i++ {
		sub, err := s.Append("A", "", "a@example.com", "", "127.0.0.1")
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		ids = append(ids, sub.ID)
	}

	count, err := s.Delete(ids[1])
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected remaining count 2, got %d", count)
	}
	for _, sub := range s.List() {
		if sub.ID == ids[1] {
			t.Fatalf("deleted submission still present")
		}
	}
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "submissions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := NewSubmissionStore(path)
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty list from corrupt file, got %d", len(got))
	}

	// The store keeps working: the next append rewrites the file whole.
	if _, err := s.Append("Ivan", "", "ivan@example.com", "", "127.0.0.1"); err != nil {
		t.Fatalf("append after corruption: %v", err)
	}
	if got := s.List(); len(got) != 1 {
		t.Fatalf("expected 1 submission after recovery, got %d", len(got))
	}
}
