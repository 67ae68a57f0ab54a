package auth

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds construction-time auth options
type Config interface {
	GetSigningKey() string
	GetCookieName() string
	GetCookieDomain() string
	GetTokenExpiration() int
}

// Hasher turns a plaintext credential into a deterministic one-way digest
// and compares candidates against a stored digest.
type Hasher interface {
	Digest(plaintext string) (string, error)
	Compare(password, digest string) error
}

// TokenService issues and verifies signed session tokens
type TokenService interface {
	Generate(user *User) (string, error)
	SignClaims(claims *SessionClaims) (string, error)
	Validate(raw string) (*SessionClaims, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
