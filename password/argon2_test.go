package password

import (
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Argon2 {
	t.Helper()

	h, err := NewArgon2(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected PHC format, got %s", hash)
	}

	ok, err := h.Verify("correct horse", hash)
	if err != nil || !ok {
		t.Fatalf("expected verification to succeed, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrong", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := testHasher(t)

	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashAcceptsShortPassword(t *testing.T) {
	h := testHasher(t)

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed for short password: %v", err)
	}
	ok, err := h.Verify("pw", hash)
	if err != nil || !ok {
		t.Fatalf("expected short password to verify, ok=%v err=%v", ok, err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := testHasher(t)

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		if _, err := h.Verify("pw", bad); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
}

func TestNeedsUpgrade(t *testing.T) {
	weak := testHasher(t)

	hash, err := weak.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	strong, err := NewArgon2(Config{
		Memory:      16 * 1024,
		Time:        2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	needs, err := strong.NeedsUpgrade(hash)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if !needs {
		t.Fatal("expected weaker hash to need an upgrade")
	}

	needs, err = weak.NeedsUpgrade(hash)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if needs {
		t.Fatal("expected matching parameters to need no upgrade")
	}
}

func TestNewArgon2EnforcesFloor(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"memory", Config{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}},
		{"time", Config{Memory: 8 * 1024, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 16}},
		{"parallelism", Config{Memory: 8 * 1024, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 16}},
		{"salt", Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}},
		{"key", Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewArgon2(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}
