package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3nha-forte")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if !Verify("s3nha-forte", encoded) {
		t.Fatal("expected matching password to verify")
	}
	if Verify("s3nha-errada", encoded) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("mesma-senha")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("mesma-senha")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct encodings")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	encodings := []string{
		"",
		"plain-text",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$not base64!$aGFzaA",
	}
	for _, encoded := range encodings {
		if Verify("qualquer", encoded) {
			t.Fatalf("expected %q to be rejected", encoded)
		}
	}
}
