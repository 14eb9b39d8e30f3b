package credgate

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

// mockStore is an in-memory UserStore for engine tests. Setting failWith
// makes every operation fail with that error, simulating a store outage.
type mockStore struct {
	mu       sync.Mutex
	users    map[string]UserRecord
	byEmail  map[string]string
	nextID   int
	failWith error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:   map[string]UserRecord{},
		byEmail: map[string]string{},
	}
}

func (m *mockStore) FindByID(_ context.Context, id string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	record, ok := m.users[id]
	if !ok {
		return UserRecord{}, ErrStoreNotFound
	}
	return record, nil
}

func (m *mockStore) FindByEmail(_ context.Context, email string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	id, ok := m.byEmail[email]
	if !ok {
		return UserRecord{}, ErrStoreNotFound
	}
	return m.users[id], nil
}

func (m *mockStore) Create(_ context.Context, input CreateUserInput) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return UserRecord{}, m.failWith
	}
	if _, exists := m.byEmail[input.Email]; exists {
		return UserRecord{}, ErrStoreDuplicateEmail
	}

	m.nextID++
	record := UserRecord{
		ID:           "u" + strconv.Itoa(m.nextID),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}
	m.users[record.ID] = record
	m.byEmail[record.Email] = record.ID
	return record, nil
}

func (m *mockStore) SetRefreshToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	record, ok := m.users[userID]
	if !ok {
		return ErrStoreNotFound
	}
	record.RefreshToken = token
	m.users[userID] = record
	return nil
}

func (m *mockStore) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	record, ok := m.users[userID]
	if !ok {
		return ErrStoreNotFound
	}
	record.PasswordHash = newHash
	m.users[userID] = record
	return nil
}

func (m *mockStore) setFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *mockStore) record(id string) UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

// fakeClock is a settable clock for token expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.AccessSecret = []byte("test-access-secret")
	cfg.JWT.RefreshSecret = []byte("test-refresh-secret")
	// Floor-level hashing cost keeps the suite fast.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.SaltLength = 16
	cfg.Password.KeyLength = 16
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, store UserStore) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func newTestEngineWithClock(t *testing.T, cfg Config, store UserStore, clock *fakeClock) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithUserStore(store).
		WithTimeFunc(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func registerTestUser(t *testing.T, engine *Engine, email, pass string) *PublicUser {
	t.Helper()

	user, err := engine.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: pass,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}
