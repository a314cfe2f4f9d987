package store

import (
	"sort"
	"sync"
	"time"

	"leadadmin/internal/models"
)

// SubmissionStore persists the submission list to a single JSON file.
// The mutex serializes read-modify-write cycles within this process;
// a second process writing the same file can still lose updates, which
// is an accepted limitation of the flat-file design.
type SubmissionStore struct {
	mu   sync.Mutex
	file *File[[]models.Submission]
	now  func() time.Time
}

func NewSubmissionStore(path string) *SubmissionStore {
	return &SubmissionStore{file: NewFile[[]models.Submission](path), now: time.Now}
}

// Append assigns a unique time-derived id and the "new" status, records
// the client IP and creation timestamp, and persists the full collection.
func (s *SubmissionStore) Append(name, surname, email, phone, ip string) (models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.file.Load()
	now := s.now().UTC()
	sub := models.Submission{
		ID:      uniqueID(subs, now.UnixMilli()),
		Name:    name,
		Surname: surname,
		Email:   email,
		Phone:   phone,
		Date:    now,
		Status:  models.StatusNew,
		IP:      ip,
	}
	subs = append(subs, sub)
	if err := s.file.Save(subs); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Ids are millisecond timestamps; bump past any collision so two
// submissions landing in the same millisecond stay distinct.
func uniqueID(subs []models.Submission, id int64) int64 {
	for {
		taken := false
		for i := range subs {
			if subs[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}

// List returns every submission, newest first.
func (s *SubmissionStore) List() []models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.file.Load()
	sort.Slice(subs, func(i, j int) bool { return subs[i].Date.After(subs[j].Date) })
	return subs
}

func (s *SubmissionStore) UpdateStatus(id int64, status models.Status, updatedBy string) (models.Submission, error) {
	if !status.Valid() {
		return models.Submission{}, ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.file.Load()
	for i := range subs {
		if subs[i].ID != id {
			continue
		}
		now := s.now().UTC()
		subs[i].Status = status
		subs[i].UpdatedAt = &now
		subs[i].UpdatedBy = updatedBy
		if err := s.file.Save(subs); err != nil {
			return models.Submission{}, err
		}
		return subs[i], nil
	}
	return models.Submission{}, ErrNotFound
}

// Delete removes the submission and returns the remaining count.
func (s *SubmissionStore) Delete(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.file.Load()
	for i := range subs {
		if subs[i].ID != id {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if err := s.file.Save(subs); err != nil {
			return 0, err
		}
		return len(subs), nil
	}
	return 0, ErrNotFound
}
