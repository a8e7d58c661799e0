// Package session authenticates roster members and keeps their sessions in
// memory, backed by the sessions collection so they survive a restart.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mold-tracker/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownSession     = errors.New("unknown session")
)

type Persister interface {
	FindPersonByUsername(ctx context.Context, username string) (*storage.Person, error)
	SaveSession(ctx context.Context, sess storage.Session) error
	DeleteSession(ctx context.Context, token string) error
	GetAllSessions(ctx context.Context) ([]storage.Session, error)
}

type Store struct {
	log       *slog.Logger
	persister Persister
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]storage.Session
}

// NewStore keeps sessions for ttl after login; ttl <= 0 means until logout.
func NewStore(log *slog.Logger, persister Persister, ttl time.Duration) *Store {
	return &Store{
		log:       log,
		persister: persister,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]storage.Session),
	}
}

// Login checks the credentials against the roster. Unknown users, wrong
// passwords and roles without login all produce ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, username, password string) (storage.Session, error) {
	const op = "session.Store.Login"

	if username == "" || password == "" {
		return storage.Session{}, ErrInvalidCredentials
	}

	person, err := s.persister.FindPersonByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if !person.Role.CanLogin() || person.PasswordHash == "" {
		return storage.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)); err != nil {
		return storage.Session{}, ErrInvalidCredentials
	}

	sess := storage.Session{
		Token:     uuid.NewString(),
		PersonID:  person.ID,
		Name:      person.Name,
		Role:      person.Role,
		CreatedAt: s.now(),
	}

	if err := s.persister.SaveSession(ctx, sess); err != nil {
		return storage.Session{}, fmt.Errorf("%s: persist session: %w", op, err)
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.log.Info("user logged in", slog.String("op", op), slog.String("person_id", person.ID), slog.String("role", string(person.Role)))

	return sess, nil
}

func (s *Store) Logout(ctx context.Context, token string) error {
	const op = "session.Store.Logout"

	s.mu.Lock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownSession
	}

	if err := s.persister.DeleteSession(ctx, token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Get(token string) (storage.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || s.expired(sess) {
		return storage.Session{}, false
	}
	return sess, true
}

func (s *Store) expired(sess storage.Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl
}

// RevokePerson ends every session of a person. It is called when the person
// is removed or their role or password changes.
func (s *Store) RevokePerson(ctx context.Context, personID string) error {
	const op = "session.Store.RevokePerson"

	s.mu.Lock()
	var tokens []string
	for token, sess := range s.sessions {
		if sess.PersonID == personID {
			tokens = append(tokens, token)
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()

	for _, token := range tokens {
		if err := s.persister.DeleteSession(ctx, token); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if len(tokens) > 0 {
		s.log.Info("sessions revoked", slog.String("op", op), slog.String("person_id", personID), slog.Int("count", len(tokens)))
	}

	return nil
}

// Rehydrate loads the persisted sessions. It runs once at startup.
func (s *Store) Rehydrate(ctx context.Context) (int, error) {
	const op = "session.Store.Rehydrate"

	stored, err := s.persister.GetAllSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range stored {
		if sess.Token == "" || !sess.Role.CanLogin() || s.expired(sess) {
			continue
		}
		s.sessions[sess.Token] = sess
	}

	return len(s.sessions), nil
}
