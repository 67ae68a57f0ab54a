package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestPassword will generate a deterministic password digest
func DigestPassword(password string) (string, error) {
	return defaultHasher.Digest(password)
}

// CompareDigest will validate the given cleartext password against a
// stored digest using a constant-time comparison
func CompareDigest(password, digest string) error {
	return defaultHasher.Compare(password, digest)
}

var defaultHasher Hasher = SHA256Hasher{}

// SHA256Hasher digests passwords as hex-encoded SHA-256. Deterministic, so
// the same input always maps to the same stored digest.
type SHA256Hasher struct{}

func (SHA256Hasher) Digest(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrNoEmptyString
	}

	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Compare(password, digest string) error {
	candidate, err := h.Digest(password)
	if err != nil {
		return err
	}
	return compareDigests(candidate, digest)
}

// Blake2Hasher digests passwords with keyed BLAKE2b-256. Still deterministic
// for a given key, but digests are useless without it.
type Blake2Hasher struct {
	key []byte
}

// NewBlake2Hasher returns a keyed hasher. The key must be at most 64 bytes.
func NewBlake2Hasher(key []byte) (*Blake2Hasher, error) {
	if _, err := blake2b.New256(key); err != nil {
		return nil, err
	}
	return &Blake2Hasher{key: key}, nil
}

func (b *Blake2Hasher) Digest(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrNoEmptyString
	}

	h, err := blake2b.New256(b.key)
	if err != nil {
		return "", err
	}
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (b *Blake2Hasher) Compare(password, digest string) error {
	candidate, err := b.Digest(password)
	if err != nil {
		return err
	}
	return compareDigests(candidate, digest)
}

func compareDigests(candidate, stored string) error {
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
