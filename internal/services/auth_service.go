package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrAuthDisabled = errors.New("admin login is not configured")
)

const sessionLifetime = 12 * time.Hour

// AuthService guards the admin console. Credentials come from configuration
// (hashed at boot, never stored in plaintext); sessions are in-memory and
// keyed by the sid cookie.
type AuthService struct {
	email string
	hash  []byte

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewAuthService hashes the configured password. An empty password disables
// admin login entirely rather than falling back to any built-in credential.
func NewAuthService(email, password string) (*AuthService, error) {
	s := &AuthService{
		email:    strings.ToLower(strings.TrimSpace(email)),
		sessions: make(map[string]time.Time),
	}
	if password == "" {
		return s, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	s.hash = hash
	return s, nil
}

func (s *AuthService) Login(sid, email, password string) error {
	if len(s.hash) == 0 {
		return ErrAuthDisabled
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		// Run the comparison anyway so a wrong email costs the same time
		// as a wrong password.
		_ = bcrypt.CompareHashAndPassword(s.hash, []byte(password))
		return ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword(s.hash, []byte(password)) != nil {
		return ErrBadCreds
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = time.Now().Add(sessionLifetime)
	return nil
}

func (s *AuthService) Logout(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
}

// IsAdmin reports whether the sid belongs to a live admin session.
func (s *AuthService) IsAdmin(sid string) bool {
	if sid == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[sid]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, sid)
		return false
	}
	return true
}
