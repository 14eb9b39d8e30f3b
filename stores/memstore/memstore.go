// Package memstore provides an in-memory credgate.UserStore for tests and
// single-process deployments. State is lost on restart.
package memstore

import (
	"context"
	"sync"

	"github.com/MrEthical07/credgate"
	"github.com/google/uuid"
)

// Store is a map-backed [credgate.UserStore]. Safe for concurrent use.
// Email uniqueness is case-sensitive: the exact byte string is the key.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]credgate.UserRecord
	byEmail map[string]string // email -> user ID
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byID:    make(map[string]credgate.UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *Store) FindByID(ctx context.Context, id string) (credgate.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return credgate.UserRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return credgate.UserRecord{}, credgate.ErrStoreNotFound
	}
	return record, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (credgate.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return credgate.UserRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return credgate.UserRecord{}, credgate.ErrStoreNotFound
	}
	return s.byID[id], nil
}

func (s *Store) Create(ctx context.Context, input credgate.CreateUserInput) (credgate.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return credgate.UserRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[input.Email]; exists {
		return credgate.UserRecord{}, credgate.ErrStoreDuplicateEmail
	}

	record := credgate.UserRecord{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}

	s.byID[record.ID] = record
	s.byEmail[record.Email] = record.ID

	return record, nil
}

func (s *Store) SetRefreshToken(ctx context.Context, userID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[userID]
	if !ok {
		return credgate.ErrStoreNotFound
	}
	record.RefreshToken = token
	s.byID[userID] = record

	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[userID]
	if !ok {
		return credgate.ErrStoreNotFound
	}
	record.PasswordHash = newHash
	s.byID[userID] = record

	return nil
}

// SetRole rewrites a user's role. Not part of the UserStore contract; it
// exists for operator tooling and tests that promote accounts out-of-band.
func (s *Store) SetRole(ctx context.Context, userID string, role credgate.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[userID]
	if !ok {
		return credgate.ErrStoreNotFound
	}
	record.Role = role
	s.byID[userID] = record

	return nil
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
