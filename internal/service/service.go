package service

import (
	"errors"
	"strings"

	"leadadmin/internal/auth"
	"leadadmin/internal/models"
	"leadadmin/internal/session"
	"leadadmin/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service composes the two file stores and the session registry behind
// the operations the HTTP layer exposes.
type Service struct {
	users    *store.AuthStore
	subs     *store.SubmissionStore
	sessions *session.Registry
}

func New(users *store.AuthStore, subs *store.SubmissionStore, sessions *session.Registry) *Service {
	return &Service{users: users, subs: subs, sessions: sessions}
}

// Login verifies the credentials against auth.json and opens a session.
// Every failure collapses to ErrInvalidCredentials so the response does
// not reveal whether the username exists.
func (s *Service) Login(username, password string) (models.Session, error) {
	u, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return models.Session{}, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return models.Session{}, ErrInvalidCredentials
	}
	return s.sessions.Create(u)
}

func (s *Service) Verify(token string) (models.Session, bool) {
	return s.sessions.Validate(token)
}

// Logout always succeeds; destroying an unknown token is a no-op.
func (s *Service) Logout(token string) {
	s.sessions.Destroy(token)
}

func (s *Service) Submit(name, surname, email, phone, ip string) (models.Submission, error) {
	return s.subs.Append(name, surname, email, phone, ip)
}

func (s *Service) ListSubmissions() []models.Submission {
	return s.subs.List()
}

func (s *Service) UpdateSubmissionStatus(id int64, status models.Status, updatedBy string) (models.Submission, error) {
	return s.subs.UpdateStatus(id, status, updatedBy)
}

func (s *Service) DeleteSubmission(id int64) (int, error) {
	return s.subs.Delete(id)
}
