package jwt

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testManager(t *testing.T, clock *testClock) *Manager {
	t.Helper()

	cfg := Config{
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
	if clock != nil {
		cfg.TimeFunc = clock.Now
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero access TTL", Config{RefreshTTL: time.Hour, AccessSecret: []byte("a"), RefreshSecret: []byte("b")}},
		{"zero refresh TTL", Config{AccessTTL: time.Hour, AccessSecret: []byte("a"), RefreshSecret: []byte("b")}},
		{"missing access secret", Config{AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour, RefreshSecret: []byte("b")}},
		{"missing refresh secret", Config{AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour, AccessSecret: []byte("a")}},
		{"shared secret", Config{AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour, AccessSecret: []byte("same"), RefreshSecret: []byte("same")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestCreateAndParseRoundTrip(t *testing.T) {
	m := testManager(t, nil)

	access, err := m.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	claims, err := m.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
}

func TestKeySeparation(t *testing.T) {
	m := testManager(t, nil)

	access, err := m.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	refresh, err := m.CreateRefresh("user-1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	if _, err := m.ParseRefresh(access); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("access token against refresh secret: expected ErrTokenMalformed, got %v", err)
	}
	if _, err := m.ParseAccess(refresh); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("refresh token against access secret: expected ErrTokenMalformed, got %v", err)
	}
}

func TestAccessExpiryBoundary(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := testManager(t, clock)

	token, err := m.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	clock.Advance(15*time.Minute - time.Second)
	if _, err := m.ParseAccess(token); err != nil {
		t.Fatalf("expected token valid 1s before expiry: %v", err)
	}

	clock.Advance(2 * time.Second)
	if _, err := m.ParseAccess(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired 1s after expiry, got %v", err)
	}
}

func TestRefreshExpiryBoundary(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := testManager(t, clock)

	token, err := m.CreateRefresh("user-1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	clock.Advance(7*24*time.Hour - time.Second)
	if _, err := m.ParseRefresh(token); err != nil {
		t.Fatalf("expected token valid 1s before expiry: %v", err)
	}

	clock.Advance(2 * time.Second)
	if _, err := m.ParseRefresh(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired 1s after expiry, got %v", err)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := testManager(t, nil)

	token, err := m.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.ParseAccess(tampered); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseRejectsWrongSigner(t *testing.T) {
	m := testManager(t, nil)

	other, err := NewManager(Config{
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		AccessSecret:  []byte("other-access"),
		RefreshSecret: []byte("other-refresh"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := other.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	if _, err := m.ParseAccess(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for foreign signer, got %v", err)
	}
}

func TestCreateRejectsEmptySubject(t *testing.T) {
	m := testManager(t, nil)

	if _, err := m.CreateAccess(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
