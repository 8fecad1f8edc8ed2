package crypto_test

import (
	"errors"
	"testing"

	"buildaq/internal/crypto"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	env, err := crypto.Seal("hello", "abc123", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if env.ID == "" || env.Sender != "You" || env.At == "" {
		t.Fatalf("incomplete envelope: %+v", env)
	}
	salt, err := crypto.FromB64(env.Salt)
	if err != nil || len(salt) != crypto.SaltBytes {
		t.Fatalf("want %d-byte salt, got %d (%v)", crypto.SaltBytes, len(salt), err)
	}
	nonce, err := crypto.FromB64(env.IV)
	if err != nil || len(nonce) != crypto.NonceBytes {
		t.Fatalf("want %d-byte nonce, got %d (%v)", crypto.NonceBytes, len(nonce), err)
	}

	got, err := crypto.Open(env, "abc123")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != "hello" {
		t.Fatalf("round trip: got %q", got)
	}
}

func TestOpen_WrongCode(t *testing.T) {
	env, err := crypto.Seal("hello", "abc123", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := crypto.Open(env, "wrong"); !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestSeal_NeverReusesRandomness(t *testing.T) {
	a, err := crypto.Seal("same text", "same code", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := crypto.Seal("same text", "same code", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if a.Salt == b.Salt {
		t.Fatal("salt reused across seals")
	}
	if a.IV == b.IV {
		t.Fatal("nonce reused across seals")
	}
	if a.Ciphertext == b.Ciphertext {
		t.Fatal("identical ciphertext for independent seals")
	}
	if a.ID == b.ID {
		t.Fatal("id reused across seals")
	}
}

func TestOpen_MalformedEnvelope(t *testing.T) {
	env, err := crypto.Seal("hello", "abc123", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	cases := []struct {
		name   string
		mutate func()
	}{
		{"bad salt encoding", func() { env.Salt = "%%%" }},
		{"truncated salt", func() { env.Salt = crypto.B64([]byte("short")) }},
		{"bad nonce encoding", func() { env.IV = "%%%" }},
		{"bad ciphertext encoding", func() { env.Ciphertext = "%%%" }},
		{"truncated ciphertext", func() { env.Ciphertext = crypto.B64([]byte{1, 2, 3}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orig := env
			defer func() { env = orig }()
			tc.mutate()
			if _, err := crypto.Open(env, "abc123"); !errors.Is(err, crypto.ErrDecryptionFailed) {
				t.Fatalf("want ErrDecryptionFailed, got %v", err)
			}
		})
	}
}
