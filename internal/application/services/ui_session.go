package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// Session is the per-request view of the UI state stored against an auth
// session. Changes are buffered until SessionService.Save.
type Session struct {
	id      string
	values  map[string]string
	changed map[string]bool
	deleted map[string]bool
}

// NewSession wraps loaded values
func NewSession(id string, values map[string]string) *Session {
	if values == nil {
		values = make(map[string]string)
	}
	return &Session{
		id:      id,
		values:  values,
		changed: make(map[string]bool),
		deleted: make(map[string]bool),
	}
}

// ID returns the auth session the state belongs to
func (s *Session) ID() string {
	return s.id
}

// Get returns a value and whether it is set
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetInt returns an integer value, 0 when unset or malformed
func (s *Session) GetInt(key string) int {
	v, ok := s.values[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Set stores a value
func (s *Session) Set(key, value string) {
	s.values[key] = value
	s.changed[key] = true
	delete(s.deleted, key)
}

// SetInt stores an integer value
func (s *Session) SetInt(key string, value int) {
	s.Set(key, strconv.Itoa(value))
}

// Delete removes a value
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	delete(s.changed, key)
	s.deleted[key] = true
}

// Flash queues a message for the next rendered page
func (s *Session) Flash(kind, message string) {
	s.Set(constants.SessionFlashPrefix+kind, message)
}

// PeekFlash returns a queued message without consuming it
func (s *Session) PeekFlash(kind string) (string, bool) {
	return s.Get(constants.SessionFlashPrefix + kind)
}

// TakeFlash returns and clears every queued message
func (s *Session) TakeFlash() map[string]string {
	out := make(map[string]string)
	for key, v := range s.values {
		if kind, ok := strings.CutPrefix(key, constants.SessionFlashPrefix); ok {
			out[kind] = v
			s.Delete(key)
		}
	}
	return out
}

// Dirty reports whether anything needs saving
func (s *Session) Dirty() bool {
	return len(s.changed) > 0 || len(s.deleted) > 0
}

// SessionService loads and saves UI session state
type SessionService struct {
	repo *persistence.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(repo *persistence.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Load reads the state of an auth session
func (s *SessionService) Load(ctx context.Context, sessionID string) (*Session, error) {
	values, err := s.repo.LoadValues(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewSession(sessionID, values), nil
}

// Save flushes buffered changes. Saving a clean session is a no-op.
func (s *SessionService) Save(ctx context.Context, sess *Session) error {
	if sess == nil || !sess.Dirty() {
		return nil
	}

	set := make(map[string]string, len(sess.changed))
	for key := range sess.changed {
		set[key] = sess.values[key]
	}
	deleted := make([]string, 0, len(sess.deleted))
	for key := range sess.deleted {
		deleted = append(deleted, key)
	}

	if err := s.repo.SaveValues(ctx, sess.id, set, deleted); err != nil {
		return err
	}
	sess.changed = make(map[string]bool)
	sess.deleted = make(map[string]bool)
	return nil
}
