package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"buildaq/internal/domain"
)

const (
	// KDF and cipher parameters. Changing any of these breaks compatibility
	// with previously sealed envelopes.
	SaltBytes     = 16
	NonceBytes    = 12
	KeyBytes      = 32
	KDFIterations = 120_000
)

// ErrDecryptionFailed is returned when the passphrase is wrong or the
// envelope has been modified / corrupted. GCM cannot tell those apart.
var ErrDecryptionFailed = errors.New("wrong passphrase or corrupted envelope")

// deriveKey stretches the shared code into an AES-256 key.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, KDFIterations, KeyBytes, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under the shared passphrase and returns a complete
// envelope ready for the log and the wire. Salt and nonce are drawn fresh on
// every call, so identical inputs never produce identical output.
func Seal(plaintext, passphrase, sender string) (domain.Envelope, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return domain.Envelope{}, err
	}
	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return domain.Envelope{}, err
	}

	aead, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return domain.Envelope{}, err
	}
	ct := aead.Seal(nil, nonce, []byte(plaintext), nil)

	return domain.Envelope{
		ID:         uuid.NewString(),
		Sender:     sender,
		At:         time.Now().UTC().Format(time.RFC3339),
		Salt:       B64(salt),
		IV:         B64(nonce),
		Ciphertext: B64(ct),
	}, nil
}

// Open re-derives the key from the envelope's salt and attempts authenticated
// decryption. Malformed encodings and tag mismatches both map to
// ErrDecryptionFailed; neither mutates the envelope.
func Open(env domain.Envelope, passphrase string) (string, error) {
	salt, err := FromB64(env.Salt)
	if err != nil || len(salt) != SaltBytes {
		return "", ErrDecryptionFailed
	}
	nonce, err := FromB64(env.IV)
	if err != nil || len(nonce) != NonceBytes {
		return "", ErrDecryptionFailed
	}
	ct, err := FromB64(env.Ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	aead, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}
