package security_test

import (
	"strings"
	"testing"

	"github.com/swiftship/swiftship-backend/pkg/config"
	"github.com/swiftship/swiftship-backend/pkg/security"
)

var testArgonConfig = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashPasswordProducesArgon2idHash(t *testing.T) {
	hash, err := security.HashPassword("dispatch-desk-9", testArgonConfig)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	second, err := security.HashPassword("dispatch-desk-9", testArgonConfig)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if second == hash {
		t.Fatal("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("dispatch-desk-9", testArgonConfig)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := security.VerifyPassword("dispatch-desk-9", hash)
	if err != nil {
		t.Fatalf("VerifyPassword on valid hash: %v", err)
	}
	if !ok {
		t.Fatal("correct password must verify")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword on wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, bad := range []string{"not-a-hash", "$argon2id$v=19$truncated", ""} {
		if _, err := security.VerifyPassword("irrelevant", bad); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
}
