package credgate

import (
	"context"
	"errors"
	"testing"
)

func TestLoginSuccessReturnsTokenPair(t *testing.T) {
	store := newMockStore()
	engine := newTestEngine(t, testConfig(), store)
	user := registerTestUser(t, engine, "alice@example.com", "correct horse")

	pair, err := engine.Login(context.Background(), "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("expected distinct access and refresh tokens")
	}

	if store.record(user.ID).RefreshToken != pair.RefreshToken {
		t.Fatal("expected refresh token persisted as the active session token")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	engine := newTestEngine(t, testConfig(), newMockStore())
	registerTestUser(t, engine, "alice@example.com", "correct horse")

	_, unknownErr := engine.Login(context.Background(), "nobody@example.com", "correct horse")
	_, wrongPassErr := engine.Login(context.Background(), "alice@example.com", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatal("expected identical error for unknown email and wrong password")
	}
}

func TestLoginDisplacesPreviousRefreshToken(t *testing.T) {
	store := newMockStore()
	engine := newTestEngine(t, testConfig(), store)
	user := registerTestUser(t, engine, "alice@example.com", "pw")

	first, err := engine.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := engine.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if store.record(user.ID).RefreshToken != second.RefreshToken {
		t.Fatal("expected the newest refresh token to be the active one")
	}
	if _, err := engine.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected displaced token to be rejected, got %v", err)
	}
}

func TestLoginStoreOutage(t *testing.T) {
	store := newMockStore()
	engine := newTestEngine(t, testConfig(), store)
	registerTestUser(t, engine, "alice@example.com", "pw")

	store.setFailure(errors.New("connection refused"))

	_, err := engine.Login(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("store outage must not masquerade as an auth failure")
	}
}

func TestLoginMalformedStoredHashRejected(t *testing.T) {
	store := newMockStore()
	engine := newTestEngine(t, testConfig(), store)
	user := registerTestUser(t, engine, "alice@example.com", "pw")

	store.mu.Lock()
	record := store.users[user.ID]
	record.PasswordHash = "not-a-phc-hash"
	store.users[user.ID] = record
	store.mu.Unlock()

	_, err := engine.Login(context.Background(), "alice@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for malformed hash, got %v", err)
	}
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	store := newMockStore()
	cfg := testConfig()
	cfg.Password.UpgradeOnLogin = true
	cfg.Password.Time = 2

	weakEngine := newTestEngine(t, testConfig(), store)
	user := registerTestUser(t, weakEngine, "alice@example.com", "pw")
	oldHash := store.record(user.ID).PasswordHash

	engine := newTestEngine(t, cfg, store)
	if _, err := engine.Login(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	newHash := store.record(user.ID).PasswordHash
	if newHash == oldHash {
		t.Fatal("expected the stored hash to be upgraded on login")
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("login after upgrade failed: %v", err)
	}
}

func TestLoginMetrics(t *testing.T) {
	engine := newTestEngine(t, testConfig(), newMockStore())
	registerTestUser(t, engine, "alice@example.com", "pw")

	if _, err := engine.Login(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}

	if got := engine.metrics.Value(MetricLoginSuccess); got != 1 {
		t.Fatalf("expected 1 login success, got %d", got)
	}
	if got := engine.metrics.Value(MetricLoginFailure); got != 1 {
		t.Fatalf("expected 1 login failure, got %d", got)
	}
}
