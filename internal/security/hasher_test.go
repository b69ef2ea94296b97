package security_test

import (
	"errors"
	"testing"

	"github.com/abylaikhan/upcheck/internal/security"
)

func TestHash_Deterministic(t *testing.T) {
	h := security.NewHasher("hashing-secret-for-tests")

	first, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first != second {
		t.Errorf("same input hashed differently: %q vs %q", first, second)
	}
}

func TestHash_KeyedBySecret(t *testing.T) {
	a, err := security.NewHasher("secret-one-for-tests").Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := security.NewHasher("secret-two-for-tests").Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("digests match across different keys")
	}
}

func TestHash_NeverEchoesInput(t *testing.T) {
	digest, err := security.NewHasher("hashing-secret-for-tests").Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "pw123" || len(digest) != 64 {
		t.Errorf("unexpected digest %q", digest)
	}
}

func TestHash_EmptyInput_Rejected(t *testing.T) {
	_, err := security.NewHasher("hashing-secret-for-tests").Hash("")
	if !errors.Is(err, security.ErrEmptySecret) {
		t.Errorf("want ErrEmptySecret, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	h := security.NewHasher("hashing-secret-for-tests")
	digest, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !h.Match("pw123", digest) {
		t.Error("correct password did not match")
	}
	if h.Match("pw124", digest) {
		t.Error("wrong password matched")
	}
	if h.Match("", digest) {
		t.Error("empty password matched")
	}
}
