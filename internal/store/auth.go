package store

import (
	"strings"
	"sync"
	"time"

	"leadadmin/internal/models"
)

type authFile struct {
	Users []models.User `json:"users"`
}

// AuthStore persists user records to auth.json. The server itself only
// reads it apart from first-run provisioning; the userctl CLI is the
// usual writer.
type AuthStore struct {
	mu   sync.Mutex
	file *File[authFile]
	now  func() time.Time
}

func NewAuthStore(path string) *AuthStore {
	return &AuthStore{file: NewFile[authFile](path), now: time.Now}
}

func (s *AuthStore) List() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Load().Users
}

func (s *AuthStore) FindByUsername(username string) (models.User, error) {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.file.Load().Users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// Create assigns a time-derived id and appends the user. Usernames are
// unique within the store.
func (s *AuthStore) Create(u models.User) (models.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.file.Load()
	for _, existing := range data.Users {
		if existing.Username == u.Username {
			return models.User{}, ErrConflict
		}
	}
	now := s.now().UTC()
	u.ID = userID(data.Users, now.UnixMilli())
	u.CreatedAt = &now
	data.Users = append(data.Users, u)
	if err := s.file.Save(data); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func userID(users []models.User, id int64) int64 {
	for {
		taken := false
		for i := range users {
			if users[i].ID == id {
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

func (s *AuthStore) SetPassword(username, passwordHash string) error {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.file.Load()
	for i := range data.Users {
		if data.Users[i].Username != username {
			continue
		}
		now := s.now().UTC()
		data.Users[i].PasswordHash = passwordHash
		data.Users[i].UpdatedAt = &now
		return s.file.Save(data)
	}
	return ErrNotFound
}
