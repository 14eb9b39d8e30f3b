package credgate

import (
	"context"
	"testing"
	"time"
)

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithConfig(testConfig()).Build()
	if err == nil {
		t.Fatal("expected error without a user store")
	}
}

func TestBuildRequiresSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessSecret = nil

	_, err := New().WithConfig(cfg).WithUserStore(newMockStore()).Build()
	if err == nil {
		t.Fatal("expected error without an access secret")
	}
}

func TestBuildRejectsSharedSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.RefreshSecret = []byte("test-access-secret")

	_, err := New().WithConfig(cfg).WithUserStore(newMockStore()).Build()
	if err == nil {
		t.Fatal("expected error when both token kinds share a secret")
	}
}

func TestBuildRejectsInvertedTTLs(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTTL = 8 * 24 * time.Hour

	_, err := New().WithConfig(cfg).WithUserStore(newMockStore()).Build()
	if err == nil {
		t.Fatal("expected error when refresh TTL does not exceed access TTL")
	}
}

func TestBuildRejectsAdminDefaultRole(t *testing.T) {
	cfg := testConfig()
	cfg.Account.DefaultRole = RoleAdmin

	_, err := New().WithConfig(cfg).WithUserStore(newMockStore()).Build()
	if err == nil {
		t.Fatal("expected error for admin default role")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	builder := New().WithConfig(testConfig()).WithUserStore(newMockStore())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildIsolatesConfigMutation(t *testing.T) {
	cfg := testConfig()
	engine := newTestEngine(t, cfg, newMockStore())
	registerTestUser(t, engine, "alice@example.com", "pw")

	// Mutating the caller's secret after Build must not affect the engine.
	cfg.JWT.AccessSecret[0] ^= 0xFF

	pair, err := engine.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.ValidateAccess(pair.AccessToken); err != nil {
		t.Fatalf("expected token minted and validated with the original secret: %v", err)
	}
}
