// Package redisstore provides a Redis-backed credgate.UserStore.
//
// Layout per user:
//
//	cg:user:<id>      hash: id, email, password_hash, role, refresh_token
//	cg:email:<email>  string: user id (uniqueness index, written with SETNX)
//
// The email index key is the exact email string, so uniqueness is
// case-sensitive. The refresh token update is a single HSET field write, so
// concurrent logins resolve last-write-wins without a read-modify-write cycle.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/credgate"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "cg"

const (
	fieldID           = "id"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
	fieldRole         = "role"
	fieldRefreshToken = "refresh_token"
)

// Store is a Redis-backed [credgate.UserStore].
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Store using the default key prefix.
func New(client redis.UniversalClient) *Store {
	return NewWithPrefix(client, defaultPrefix)
}

// NewWithPrefix creates a Store under a custom key namespace.
func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) userKey(id string) string {
	return s.prefix + ":user:" + id
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

func (s *Store) FindByID(ctx context.Context, id string) (credgate.UserRecord, error) {
	values, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return credgate.UserRecord{}, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(values) == 0 {
		return credgate.UserRecord{}, credgate.ErrStoreNotFound
	}

	return recordFromHash(values), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (credgate.UserRecord, error) {
	id, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return credgate.UserRecord{}, credgate.ErrStoreNotFound
		}
		return credgate.UserRecord{}, fmt.Errorf("redis get: %w", err)
	}

	return s.FindByID(ctx, id)
}

func (s *Store) Create(ctx context.Context, input credgate.CreateUserInput) (credgate.UserRecord, error) {
	record := credgate.UserRecord{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}

	// SETNX on the email index is the uniqueness gate; the record hash is
	// only written after the index claim succeeds.
	claimed, err := s.redis.SetNX(ctx, s.emailKey(input.Email), record.ID, 0).Result()
	if err != nil {
		return credgate.UserRecord{}, fmt.Errorf("redis setnx: %w", err)
	}
	if !claimed {
		return credgate.UserRecord{}, credgate.ErrStoreDuplicateEmail
	}

	err = s.redis.HSet(ctx, s.userKey(record.ID), map[string]interface{}{
		fieldID:           record.ID,
		fieldEmail:        record.Email,
		fieldPasswordHash: record.PasswordHash,
		fieldRole:         string(record.Role),
		fieldRefreshToken: "",
	}).Err()
	if err != nil {
		// Roll back the index claim so the email is not orphaned.
		_ = s.redis.Del(ctx, s.emailKey(input.Email)).Err()
		return credgate.UserRecord{}, fmt.Errorf("redis hset: %w", err)
	}

	return record, nil
}

func (s *Store) SetRefreshToken(ctx context.Context, userID, token string) error {
	exists, err := s.redis.Exists(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if exists == 0 {
		return credgate.ErrStoreNotFound
	}

	if err := s.redis.HSet(ctx, s.userKey(userID), fieldRefreshToken, token).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	exists, err := s.redis.Exists(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis exists: %w", err)
	}
	if exists == 0 {
		return credgate.ErrStoreNotFound
	}

	if err := s.redis.HSet(ctx, s.userKey(userID), fieldPasswordHash, newHash).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Ping reports Redis availability.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func recordFromHash(values map[string]string) credgate.UserRecord {
	return credgate.UserRecord{
		ID:           values[fieldID],
		Email:        values[fieldEmail],
		PasswordHash: values[fieldPasswordHash],
		Role:         credgate.Role(values[fieldRole]),
		RefreshToken: values[fieldRefreshToken],
	}
}
